package options

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/flynn/json5"
	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/go/util"
	"sigs.k8s.io/yaml"
)

// LoadFromFile overlays the config file at path onto dst, which should
// already hold defaults. Files ending in .yaml or .yml are read as YAML,
// everything else as JSON5. Fields absent from the file keep their value.
func LoadFromFile(path string, dst interface{}) error {
	ext := strings.ToLower(filepath.Ext(path))
	err := util.WithReadFile(path, func(r io.Reader) error {
		if ext == ".yaml" || ext == ".yml" {
			b, err := io.ReadAll(r)
			if err != nil {
				return err
			}
			return yaml.Unmarshal(b, dst)
		}
		return json5.NewDecoder(r).Decode(dst)
	})
	if err != nil {
		return skerr.Wrapf(err, "reading config at %s", path)
	}
	return nil
}

// LoadCompareOptions returns the defaults overlaid with the config at path,
// normalized and validated. An empty path returns the defaults.
func LoadCompareOptions(path string) (CompareOptions, error) {
	o := DefaultCompareOptions()
	if path != "" {
		if err := LoadFromFile(path, &o); err != nil {
			return CompareOptions{}, err
		}
	}
	o.Normalize()
	if err := o.Validate(); err != nil {
		return CompareOptions{}, skerr.Wrapf(err, "invalid compare options in %s", path)
	}
	return o, nil
}

// LoadWcagOptions returns the defaults overlaid with the config at path,
// validated. An empty path returns the defaults.
func LoadWcagOptions(path string) (WcagOptions, error) {
	o := DefaultWcagOptions()
	if path != "" {
		if err := LoadFromFile(path, &o); err != nil {
			return WcagOptions{}, err
		}
	}
	if err := o.Validate(); err != nil {
		return WcagOptions{}, skerr.Wrapf(err, "invalid wcag options in %s", path)
	}
	return o, nil
}
