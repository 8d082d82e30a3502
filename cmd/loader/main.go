package main

import (
	"context"
	"flag"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/premstats/premstats/internal/config"
	"github.com/premstats/premstats/internal/loader"
	"github.com/premstats/premstats/internal/store"
)

// main loads one or more football-data.co.uk season CSV files
// (prem_YY_YY_stats.csv) into the match database.
func main() {
	dirFlag := flag.String("dir", "", "Directory of prem_YY_YY_stats.csv files to load")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	files := flag.Args()
	if *dirFlag != "" {
		matches, err := filepath.Glob(filepath.Join(*dirFlag, "prem_*_stats.csv"))
		if err != nil {
			logger.WithError(err).Fatal("failed to scan directory")
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		logger.Fatal("no input files: pass CSV paths or -dir")
	}
	sort.Strings(files)

	ctx := context.Background()

	st, err := store.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer st.Close()

	l := loader.New(st, logger)

	total := 0
	for _, path := range files {
		n, err := l.LoadFile(ctx, path)
		if err != nil {
			logger.WithError(err).WithField("file", path).Fatal("load failed")
		}
		total += n
	}

	logger.WithFields(logrus.Fields{"files": len(files), "matches": total}).Info("load complete")
}
