package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/badalku27/WhatsApp-Web-Clone/config"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/events"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/ingest"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/repository"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/services"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/database"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/logger"
)

// Offline payload loader. Reads *.json webhook payload files from a
// directory and applies them through the ingestion gateway, without
// broadcasting anything.
func main() {
	dir := flag.String("dir", "payloads", "directory containing *.json payload files")
	timeout := flag.Duration("timeout", 30*time.Second, "how long to wait for the datastore")
	flag.Parse()

	cfg := config.LoadConfig()
	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	mongo := database.NewMongo(database.Config{
		URI:       cfg.MongoURI,
		DBName:    cfg.MongoDBName,
		RetryWait: cfg.MongoRetryWait,
	}, l)
	mongo.Start()
	defer mongo.Close(context.Background())

	if err := waitForDatastore(ctx, mongo); err != nil {
		log.Fatalf("Datastore not reachable: %v", err)
	}

	messageRepo := repository.NewMessageRepository(mongo)
	contactRepo := repository.NewContactRepository(mongo)
	contacts := services.NewContactService(contactRepo, nil, events.NopBroadcaster{}, l)
	simulator := services.NewDeliverySimulator(messageRepo, events.NopBroadcaster{}, l, 0, 0)
	messages := services.NewMessageService(messageRepo, contacts, events.NopBroadcaster{}, simulator, l)
	gateway := ingest.NewGateway(messages, l)

	files, err := listPayloadFiles(*dir)
	if err != nil {
		log.Fatalf("Failed to read payload directory: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("No *.json payload files in %s", *dir)
	}

	var total ingest.Summary
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			l.Errorf("skipping %s: %s", file, err)
			continue
		}
		summary, err := gateway.ApplyRaw(ctx, raw)
		if err != nil {
			l.Errorf("skipping %s: %s", file, err)
			continue
		}
		l.Infof("%s: inserted=%d updated=%d skipped=%d", filepath.Base(file), summary.Inserted, summary.Updated, summary.Skipped)
		total.Inserted += summary.Inserted
		total.Updated += summary.Updated
		total.Skipped += summary.Skipped
	}

	fmt.Printf("Done: inserted=%d updated=%d skipped=%d\n", total.Inserted, total.Updated, total.Skipped)
}

func listPayloadFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func waitForDatastore(ctx context.Context, mongo *database.Mongo) error {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		if _, err := mongo.Database(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
