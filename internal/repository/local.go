package repository

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/akorzh/stepwise/internal/logger"
	"github.com/akorzh/stepwise/internal/version"
	"github.com/pkg/errors"
)

const DefaultFolder = "./versions"

// migrationFileRegexp recognizes files this tool manages; anything
// else in the folder is ignored.
var migrationFileRegexp = regexp.MustCompile(`^\d{4}_.+\.sql$`)

type ClockFunc func() time.Time

// Local is a Repository over a single filesystem directory.
type Local struct {
	folder string
	lg     logger.Logger
	clock  ClockFunc
}

var _ Repository = (*Local)(nil)

func NewLocal(folder string, lg logger.Logger) *Local {
	return &Local{
		folder: folder,
		lg:     lg,
		clock:  time.Now,
	}
}

func (r *Local) IsValid() bool {
	info, err := os.Stat(r.folder)
	if os.IsNotExist(err) {
		return false
	}

	return info.IsDir()
}

func (r *Local) NextName(label string) (string, error) {
	files, err := r.scan()
	if err != nil {
		return "", err
	}

	if len(files) == 0 {
		return initialPairName, nil
	}

	highest := version.Zero
	for _, f := range files {
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

func (r *Local) UpgradeFiles(versions []version.Version) ([]string, error) {
	return r.filesFor(versions, UpgradeSuffix)
}

func (r *Local) DowngradeFiles(versions []version.Version) ([]string, error) {
	return r.filesFor(versions, DowngradeSuffix)
}

func (r *Local) CreateEmptyPair(name string) error {
	for _, suffix := range []string{UpgradeSuffix, DowngradeSuffix} {
		filename := filepath.Join(r.folder, name+suffix)

		f, err := os.Create(filename)
		if err != nil {
			return errors.Wrapf(err, "could not create file [%s]", filename)
		}

		if cErr := f.Close(); cErr != nil {
			return errors.Wrapf(cErr, "could not close file [%s]", filename)
		}

		r.lg.Debugf("created %s", filename)
	}

	return nil
}

func (r *Local) Read(filename string) (string, error) {
	path := filepath.Join(r.folder, filename)

	b, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(ErrFileNotFound, "%s", path)
		}

		return "", errors.Wrapf(err, "could not read migration file [%s]", path)
	}

	return string(b), nil
}

func (r *Local) filesFor(versions []version.Version, suffix string) ([]string, error) {
	files, err := r.scan()
	if err != nil {
		return nil, err
	}

	var result []string
	for _, v := range versions {
		prefix := v.String()
		for _, f := range files {
			if strings.HasPrefix(f, prefix) && strings.HasSuffix(f, suffix) {
				result = append(result, f)
			}
		}
	}

	return result, nil
}

// scan lists recognized migration files in directory listing order.
func (r *Local) scan() ([]string, error) {
	entries, err := ioutil.ReadDir(r.folder)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read migrations folder [%s]", r.folder)
	}

	var files []string
	for i := range entries {
		if entries[i].IsDir() {
			continue
		}

		name := entries[i].Name()
		if !migrationFileRegexp.MatchString(name) {
			r.lg.Debugf("skipping unrecognized file %s", name)
			continue
		}

		files = append(files, name)
	}

	return files, nil
}
