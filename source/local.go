package source

import (
	"io/ioutil"
	"os"

	"github.com/ssor/bom"
)

// LocalFile reads a document from the local filesystem.
type LocalFile struct {
	name string
	path string
}

func NewLocalFile(name string, path string) *LocalFile {
	ds := &LocalFile{
		name: name,
		path: path,
	}
	return ds
}

func (ds *LocalFile) Name() string {
	return ds.name
}

func (ds *LocalFile) Fetch() ([]byte, error) {
	data, err := ioutil.ReadFile(ds.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return bom.CleanBom(data), nil
}
