package repository

import (
	"sort"
	"strings"
	"time"

	"github.com/akorzh/stepwise/internal/version"
	"github.com/pkg/errors"
)

// InMemory keeps migration scripts in a map and exists so that the
// orchestrator can be tested without touching a real directory.
type InMemory struct {
	files map[string]string
	clock ClockFunc
}

var _ Repository = (*InMemory)(nil)

func NewInMemory() *InMemory {
	return &InMemory{
		files: make(map[string]string),
		clock: time.Now,
	}
}

// Add registers a file with the given contents.
func (r *InMemory) Add(filename, contents string) {
	r.files[filename] = contents
}

func (r *InMemory) NextName(label string) (string, error) {
	names := r.sortedNames()

	if len(names) == 0 {
		return initialPairName, nil
	}

	highest := version.Zero
	for _, f := range names {
		v, err := version.FromPrefix(f)
		if err != nil {
			return "", err
		}

		if v > highest {
			highest = v
		}
	}

	next, err := highest.Next()
	if err != nil {
		return "", errors.Wrapf(err, "cannot generate a migration after [%s]", highest)
	}

	if label == "" {
		label = "auto_" + r.clock().Format(autoLabelLayout)
	} else {
		label = strings.ReplaceAll(label, " ", "_")
	}

	return next.String() + "_" + label, nil
}

func (r *InMemory) UpgradeFiles(versions []version.Version) ([]string, error) {
	return r.filesFor(versions, UpgradeSuffix), nil
}

func (r *InMemory) DowngradeFiles(versions []version.Version) ([]string, error) {
	return r.filesFor(versions, DowngradeSuffix), nil
}

func (r *InMemory) CreateEmptyPair(name string) error {
	r.files[name+UpgradeSuffix] = ""
	r.files[name+DowngradeSuffix] = ""
	return nil
}

func (r *InMemory) Read(filename string) (string, error) {
	contents, ok := r.files[filename]
	if !ok {
		return "", errors.Wrapf(ErrFileNotFound, "%s", filename)
	}

	return contents, nil
}

func (r *InMemory) filesFor(versions []version.Version, suffix string) []string {
	names := r.sortedNames()

	var result []string
	for _, v := range versions {
		prefix := v.String()
		for _, f := range names {
			if strings.HasPrefix(f, prefix) && strings.HasSuffix(f, suffix) {
				result = append(result, f)
			}
		}
	}

	return result
}

func (r *InMemory) sortedNames() []string {
	names := make([]string, 0, len(r.files))
	for f := range r.files {
		names = append(names, f)
	}

	sort.Strings(names)

	return names
}
