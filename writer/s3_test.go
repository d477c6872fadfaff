package writer

import (
	"testing"
	"time"

	appconfig "github.com/XmataN16/csv-median-calculator/config"
	"github.com/XmataN16/csv-median-calculator/logger"
)

func TestObjectKey(t *testing.T) {
	u := &S3Uploader{
		config: &appconfig.Config{
			Storage: appconfig.StorageConfig{
				S3: appconfig.S3Config{KeyPrefix: "median"},
			},
		},
		log: logger.GetLogger(),
	}

	ts := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	if got := u.objectKey("price_median.csv", ts); got != "median/2024/03/07/price_median.csv" {
		t.Fatalf("unexpected key: %s", got)
	}
}

func TestObjectKeyWithoutPrefix(t *testing.T) {
	u := &S3Uploader{
		config: &appconfig.Config{},
		log:    logger.GetLogger(),
	}

	ts := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	if got := u.objectKey("out.csv", ts); got != "2024/12/31/out.csv" {
		t.Fatalf("unexpected key: %s", got)
	}
}
