// Command ingest imports entries from a legacy sqlite database into the
// current store. Legacy databases exist in three incompatible column
// orders; the -schema flag selects which positional layout the rows were
// produced under.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	gsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"imagevault_backend/internal/config"
	entryadapters "imagevault_backend/internal/feature/entries/adapters"
	"imagevault_backend/internal/feature/entries/domain/entity"
	"imagevault_backend/internal/feature/entries/fieldmap"
	infradb "imagevault_backend/internal/platform/db"
)

func main() {
	from := flag.String("from", "", "path to the legacy sqlite database")
	schemaName := flag.String("schema", fieldmap.TableOrder.Name(),
		"positional layout of the legacy rows (query-order, enhanced-order, table-order)")
	flag.Parse()

	if *from == "" {
		log.Fatal("missing -from flag")
	}
	schema := fieldmap.ByName(*schemaName)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	legacy, err := gorm.Open(gsqlite.Open(*from), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open legacy database: %v", err)
	}

	target := infradb.Open(cfg.DBDriver, cfg.DBDSN, true)
	repo := entryadapters.NewEntryGorm(target)

	ctx := context.Background()
	imported, skipped := 0, 0

	rows, err := legacy.Raw("SELECT * FROM entries").Rows()
	if err != nil {
		log.Fatalf("failed to read legacy entries: %v", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		log.Fatal(err)
	}

	for rows.Next() {
		record := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range record {
			ptrs[i] = &record[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			log.Printf("skipping unreadable row: %v", err)
			skipped++
			continue
		}

		e := entryFromRecord(schema, record)
		if e.Username == "" {
			log.Printf("skipping row without owner (legacy id %v)", schema.Get(record, "id"))
			skipped++
			continue
		}
		if err := repo.Create(ctx, e); err != nil {
			log.Printf("failed to import legacy id %v: %v", schema.Get(record, "id"), err)
			skipped++
			continue
		}
		imported++
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("legacy row iteration failed: %v", err)
	}

	fmt.Printf("imported %d entries, skipped %d\n", imported, skipped)
}

// entryFromRecord decodes one positional row through the schema mapping.
// Fields missing from short (partially-migrated) rows stay unset.
func entryFromRecord(schema fieldmap.Schema, record []any) *entity.Entry {
	e := &entity.Entry{
		UserID:       uint(asInt64(schema.Get(record, "user_id"))),
		Username:     asString(schema.Get(record, "username")),
		Title:        asString(schema.Get(record, "title")),
		Filename:     asString(schema.Get(record, "filename")),
		Description:  asString(schema.Get(record, "description")),
		ImageCaption: asString(schema.Get(record, "image_caption")),
		Link:         asString(schema.Get(record, "link")),
		LinkSummary:  asString(schema.Get(record, "link_summary")),
		Categories:   asString(schema.Get(record, "categories")),
		Tags:         asString(schema.Get(record, "tags")),
		FilePath:     asString(schema.Get(record, "file_path")),
		Notes:        asString(schema.Get(record, "notes")),
		IsFavorite:   asBool(schema.Get(record, "is_favorite")),
	}

	if v := schema.Get(record, "file_size"); v != nil {
		size := asInt64(v)
		e.FileSize = &size
	}
	if v := schema.Get(record, "image_width"); v != nil {
		w := int(asInt64(v))
		e.ImageWidth = &w
	}
	if v := schema.Get(record, "image_height"); v != nil {
		h := int(asInt64(v))
		e.ImageHeight = &h
	}
	if v := schema.Get(record, "is_archived"); v != nil {
		archived := asBool(v)
		e.IsArchived = &archived
	}
	if t, ok := asTime(schema.Get(record, "uploaded_at")); ok {
		e.UploadedAt = t
	}

	return e
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case string:
		return b == "1" || b == "true"
	default:
		return false
	}
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
