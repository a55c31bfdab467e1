package seed

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsv2dynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsv2types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	awsv2xray "github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"github.com/aws/aws-xray-sdk-go/xray"

	"access-console/internal/domain"
	"access-console/internal/ports"
)

const (
	entityRole = "ROLE"
	entityUser = "USER"
)

// ScanAPI is the part of the DynamoDB client the provider needs.
type ScanAPI interface {
	Scan(ctx context.Context, in *awsv2dynamodb.ScanInput, optFns ...func(*awsv2dynamodb.Options)) (*awsv2dynamodb.ScanOutput, error)
}

// seedItem is one row of the seed table. EntityType tells roles and users
// apart; the remaining attributes are filled per type.
type seedItem struct {
	EntityType  string   `dynamodbav:"EntityType"`
	ID          int64    `dynamodbav:"ID"`
	Name        string   `dynamodbav:"Name"`
	Description string   `dynamodbav:"Description"`
	Permissions []string `dynamodbav:"Permissions"`
	Email       string   `dynamodbav:"Email"`
	RoleID      int64    `dynamodbav:"RoleID"`
	Status      string   `dynamodbav:"Status"`
	LastActive  string   `dynamodbav:"LastActive"`
}

// DynamoDBProvider reads a session's starting data from a table. It never
// writes; sessions stay in memory.
type DynamoDBProvider struct {
	client    ScanAPI
	tableName string
}

func NewDynamoDBProvider(client ScanAPI, tableName string) *DynamoDBProvider {
	return &DynamoDBProvider{client: client, tableName: tableName}
}

// NewDynamoDBClient builds an X-Ray instrumented client from the default AWS
// credential chain.
func NewDynamoDBClient(ctx context.Context, region string) (*awsv2dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	awsv2xray.AWSV2Instrumentor(&cfg.APIOptions)
	return awsv2dynamodb.NewFromConfig(cfg), nil
}

func (p *DynamoDBProvider) Load(ctx context.Context) (ports.Dataset, error) {
	var items []seedItem
	var startKey map[string]awsv2types.AttributeValue
	for {
		var out *awsv2dynamodb.ScanOutput
		err := xray.Capture(ctx, "DynamoDB.ScanSeed", func(ctx context.Context) error {
			var e error
			out, e = p.client.Scan(ctx, &awsv2dynamodb.ScanInput{
				TableName:         aws.String(p.tableName),
				ExclusiveStartKey: startKey,
			})
			return e
		})
		if err != nil {
			return ports.Dataset{}, fmt.Errorf("scan seed table %s: %w", p.tableName, err)
		}
		var page []seedItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return ports.Dataset{}, fmt.Errorf("decode seed table %s: %w", p.tableName, err)
		}
		items = append(items, page...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return toDataset(items)
}

func toDataset(items []seedItem) (ports.Dataset, error) {
	ds := ports.Dataset{Roles: []domain.Role{}, Users: []domain.User{}}
	for _, it := range items {
		switch it.EntityType {
		case entityRole:
			perms := make([]domain.Permission, 0, len(it.Permissions))
			for _, raw := range it.Permissions {
				perm, err := domain.ParsePermission(raw)
				if err != nil {
					return ports.Dataset{}, fmt.Errorf("role %d: %w", it.ID, err)
				}
				perms = append(perms, perm)
			}
			ds.Roles = append(ds.Roles, domain.Role{ID: it.ID, Name: it.Name, Description: it.Description, Permissions: perms})
		case entityUser:
			user := domain.User{ID: it.ID, Name: it.Name, Email: it.Email, RoleID: it.RoleID}
			if it.Status != "" {
				status, err := domain.ParseStatus(it.Status)
				if err != nil {
					return ports.Dataset{}, fmt.Errorf("user %d: %w", it.ID, err)
				}
				user.Status = status
			}
			if it.LastActive != "" {
				lastActive, err := time.Parse(time.RFC3339, it.LastActive)
				if err != nil {
					return ports.Dataset{}, domain.Invalid("user %d: last active %q is not RFC 3339", it.ID, it.LastActive)
				}
				user.LastActive = lastActive
			}
			ds.Users = append(ds.Users, user)
		}
	}
	// Scan order is arbitrary; seed in id order so new ids follow the table's.
	slices.SortFunc(ds.Roles, func(a, b domain.Role) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(ds.Users, func(a, b domain.User) int { return cmp.Compare(a.ID, b.ID) })
	return ds, nil
}
