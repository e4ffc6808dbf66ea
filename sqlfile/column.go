// Package sqlfile bridges stowage handles across a database column. Models
// persist a plain string key; reads materialize File or Image handles bound
// to the column's storage backend.
//
// A column holds exactly one backend reference shared by every row value it
// decodes. Constructing a column with no backend and wiring one in later is
// supported, but handles decoded before the backend is set fail with
// stowage.ErrBackend on first I/O.
//
//	files := sqlfile.NewFileColumn(backend)
//
//	// write: a handle, a raw key, or nil all bind to the same column
//	_, err := db.ExecContext(ctx, `UPDATE docs SET attachment = $1`, sqlfile.Bind(handle))
//
//	// read
//	var f *stowage.File
//	err = db.QueryRowContext(ctx, `SELECT attachment FROM docs`).Scan(files.Scan(&f))
package sqlfile

import (
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/sagarc03/stowage"
)

// Bind coerces an outbound value into the persisted string form:
//
//   - nil stays nil (SQL NULL)
//   - a plain string passes through unchanged
//   - a *stowage.File or *stowage.Image contributes its Name
//   - a driver.Valuer or fmt.Stringer resolves through its own contract
//   - anything else is stringified
//
// The permissive coercion lets callers assign either a raw key or an
// existing handle to the field transparently.
func Bind(v any) (driver.Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return val, nil
	case *stowage.File:
		if val == nil {
			return nil, nil
		}
		return val.Name(), nil
	case *stowage.Image:
		if val == nil {
			return nil, nil
		}
		return val.Name(), nil
	case driver.Valuer:
		return val.Value()
	case fmt.Stringer:
		return val.String(), nil
	default:
		return fmt.Sprintf("%v", val), nil
	}
}

// FileColumn decodes persisted string keys into *stowage.File handles.
type FileColumn struct {
	storage stowage.Storage
}

// NewFileColumn returns a column adapter bound to storage. A nil storage is
// accepted; wire one in with SetStorage before decoded handles perform I/O.
func NewFileColumn(storage stowage.Storage) *FileColumn {
	return &FileColumn{storage: storage}
}

// SetStorage wires the backend used by subsequently decoded handles.
func (c *FileColumn) SetStorage(storage stowage.Storage) {
	c.storage = storage
}

// File materializes a handle from a scanned column value. A SQL NULL yields
// a nil handle.
func (c *FileColumn) File(src any) (*stowage.File, error) {
	name, ok, err := scanString(src)
	if err != nil || !ok {
		return nil, err
	}
	return stowage.NewFile(name, c.storage), nil
}

// Scan returns a sql.Scanner that decodes a row value into dst.
func (c *FileColumn) Scan(dst **stowage.File) sql.Scanner {
	return fileScanner{col: c, dst: dst}
}

type fileScanner struct {
	col *FileColumn
	dst **stowage.File
}

func (s fileScanner) Scan(src any) error {
	f, err := s.col.File(src)
	if err != nil {
		return err
	}
	*s.dst = f
	return nil
}

// ImageColumn decodes persisted string keys into *stowage.Image handles.
// Binding works exactly as for FileColumn.
type ImageColumn struct {
	FileColumn
}

// NewImageColumn returns an image column adapter bound to storage.
func NewImageColumn(storage stowage.Storage) *ImageColumn {
	return &ImageColumn{FileColumn{storage: storage}}
}

// Image materializes an image handle from a scanned column value. A SQL
// NULL yields a nil handle.
func (c *ImageColumn) Image(src any) (*stowage.Image, error) {
	name, ok, err := scanString(src)
	if err != nil || !ok {
		return nil, err
	}
	return stowage.NewImage(name, c.storage), nil
}

// Scan returns a sql.Scanner that decodes a row value into dst.
func (c *ImageColumn) Scan(dst **stowage.Image) sql.Scanner {
	return imageScanner{col: c, dst: dst}
}

type imageScanner struct {
	col *ImageColumn
	dst **stowage.Image
}

func (s imageScanner) Scan(src any) error {
	img, err := s.col.Image(src)
	if err != nil {
		return err
	}
	*s.dst = img
	return nil
}

// scanString extracts the string form of a driver value. ok is false for
// SQL NULL.
func scanString(src any) (name string, ok bool, err error) {
	switch val := src.(type) {
	case nil:
		return "", false, nil
	case string:
		return val, true, nil
	case []byte:
		return string(val), true, nil
	default:
		return "", false, fmt.Errorf("sqlfile: cannot scan %T into a file column", src)
	}
}
