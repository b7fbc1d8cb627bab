// Command receipt_watcher watches a drop directory and records every
// receipt image that lands there as an expense for one user. Useful for
// bulk-importing photographed receipts without going through the API.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"budgethub/models"
	"budgethub/pkg/receipt"

	"github.com/fsnotify/fsnotify"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	dir      = flag.String("dir", "receipts", "directory to scan/watch for receipt images")
	userID   = flag.Uint("user", 0, "owning user id for created expenses (required)")
	category = flag.String("category", "Receipt", "category label for created expenses")
	workers  = flag.Int("workers", 2, "parallel OCR workers")
	watch    = flag.Bool("watch", false, "keep watching the directory after the initial scan")
	dry      = flag.Bool("dry", false, "print proposed expenses without writing")
)

func main() {
	flag.Parse()
	if *userID == 0 {
		log.Fatal("-user is required")
	}
	gdb := mustDBFromEnv()

	var user models.User
	if err := gdb.First(&user, *userID).Error; err != nil {
		log.Fatalf("user %d not found: %v", *userID, err)
	}

	initial := listImageFiles(*dir)
	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				processReceipt(gdb, user.ID, filepath.Join(*dir, name), name)
			}
		}()
	}

	if !*watch {
		for _, name := range initial {
			fileCh <- name
		}
		close(fileCh)
		wg.Wait()
		return
	}

	for _, name := range initial {
		fileCh <- name
	}
	if err := watchDirectory(*dir, fileCh); err != nil {
		log.Fatalf("watch: %v", err)
	}
}

func mustDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	return gdb
}

func processReceipt(gdb *gorm.DB, userID uint, full, name string) {
	amt, err := receipt.ExtractAmount(full)
	if err != nil {
		log.Printf("ocr skipped %s: %v", name, err)
		return
	}
	if *dry {
		log.Printf("[dry] would create expense user=%d amount=%.2f file=%s", userID, amt, name)
		return
	}
	// one expense per file name per user, so re-scans stay idempotent
	var existing models.Expense
	if err := gdb.Where("user_id = ? AND description = ?", userID, name).First(&existing).Error; err == nil {
		log.Printf("skip %s: already recorded (expense id=%d)", name, existing.ID)
		return
	}
	e := models.Expense{
		UserID:      userID,
		Description: name,
		Amount:      amt,
		Date:        time.Now().UTC(),
		Category:    *category,
	}
	if err := gdb.Create(&e).Error; err != nil {
		log.Printf("create expense for %s: %v", name, err)
		return
	}
	log.Printf("recorded %s as expense id=%d amount=%.2f", name, e.ID, amt)
}

func listImageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isSupportedExt(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

// watchDirectory feeds newly created image files into fileCh, debounced so
// half-written files are not OCRed mid-copy.
func watchDirectory(dir string, fileCh chan<- string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %s (debounced) ...", dir)

	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				close(fileCh)
				return nil
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				name := filepath.Base(ev.Name)
				if !isSupportedExt(name) {
					continue
				}
				pending[name] = time.Now()
			}
		case <-ticker.C:
			now := time.Now()
			for name, t := range pending {
				if now.Sub(t) > 300*time.Millisecond { // stable
					fileCh <- name
					delete(pending, name)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				close(fileCh)
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func isSupportedExt(name string) bool {
	// ignore preprocessing temp files to avoid recursive processing
	if strings.Contains(name, ".prep.") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}
