package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"access-console/internal/ports"
)

// FileProvider reads a dataset from a YAML document of the form
//
//	roles:
//	  - {id: 1, name: Admin, description: ..., permissions: [create, read]}
//	users:
//	  - {id: 1, name: Alice, email: alice@example.com, role_id: 1, status: Active}
type FileProvider struct {
	Path string
}

func (p FileProvider) Load(context.Context) (ports.Dataset, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return ports.Dataset{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (ports.Dataset, error) {
	var ds ports.Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil && err != io.EOF {
		return ports.Dataset{}, fmt.Errorf("decode seed file: %w", err)
	}
	return ds, nil
}

func Encode(w io.Writer, ds ports.Dataset) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ds); err != nil {
		return err
	}
	return enc.Close()
}
