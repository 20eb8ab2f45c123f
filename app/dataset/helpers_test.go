package dataset

import (
	"os"
	"time"
)

func touch(path string, when time.Time) error {
	return os.Chtimes(path, when, when)
}
