package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"soundtrace/db"
	"soundtrace/shazam"
	"soundtrace/utils"
	"soundtrace/wav"

	"github.com/fatih/color"
)

const (
	SONGS_DIR = "songs"
)

// add registers filePath under (title, artist) and fingerprints it
// with the spec-pinned DefaultMusicConfig, the core Ingest operation
// exercised directly rather than through the chunked audiobook path.
func add(filePath, title, artist string) {
	dbClient, err := db.NewDBClient()
	if err != nil {
		color.Red("error creating DB client: %v", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	pipeline := shazam.NewPipeline(wav.FileDecoder{}, dbClient)

	result, err := pipeline.Ingest(filePath, title, artist)
	if err != nil {
		color.Red("error ingesting %q: %v", filePath, err)
		os.Exit(1)
	}

	color.Green("indexed %q by %q (songID=%d, %d fingerprints)", title, artist, result.SongID, result.Fingerprints)
}

// query fingerprints filePath with DefaultMusicConfig and reports the
// best match, if any, matching spec.md §6's CLI exit-code contract:
// 0 for both a match and a clean no-match, 1 on failure.
func query(filePath string) {
	dbClient, err := db.NewDBClient()
	if err != nil {
		color.Red("error creating DB client: %v", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	pipeline := shazam.NewPipeline(wav.FileDecoder{}, dbClient)

	matches, err := pipeline.Query(filePath)
	if err != nil {
		color.Red("error querying %q: %v", filePath, err)
		os.Exit(1)
	}

	if len(matches) == 0 {
		fmt.Println("No match found.")
		return
	}

	best := matches[0]
	color.Cyan("Best Match: %s by %s", best.Title, best.Artist)
	fmt.Printf("score: %.2f\n", best.Score)
}

func find(filePath string) {
	log.Printf("[find] fingerprinting %s with chunked processing...", filePath)

	dbClient, err := db.NewDBClient()
	if err != nil {
		color.Red("error creating DB client: %v", err)
		return
	}
	defer dbClient.Close()

	fingerprint, err := shazam.FingerprintAudioChunked(wav.FileDecoder{}, filePath, utils.GenerateUniqueID(), fpConfig)
	if err != nil {
		color.Red("error generating fingerprint: %v", err)
		return
	}

	sampleFingerprint := make(map[uint32]uint32, len(fingerprint))
	for address, couple := range fingerprint {
		sampleFingerprint[address] = couple.AnchorTimeMs
	}

	log.Printf("[find] searching database with %d fingerprints...", len(sampleFingerprint))

	searchStart := time.Now()
	matches, err := shazam.NewMatcher(dbClient).Match(sampleFingerprint)
	searchDuration := time.Since(searchStart)
	if err != nil {
		color.Red("error finding matches: %v", err)
		return
	}

	if len(matches) == 0 {
		fmt.Println("\nNo match found.")
		fmt.Printf("\nsearch took: %s\n", searchDuration)
		return
	}

	topMatches := matches
	if len(matches) >= 20 {
		fmt.Println("top 20 matches:")
		topMatches = matches[:20]
	} else {
		fmt.Println("matches:")
	}

	for _, match := range topMatches {
		fmt.Printf("\t- %s by %s, score: %.2f\n", match.Title, match.Artist, match.Score)
	}

	fmt.Printf("\nsearch took: %s\n", searchDuration)
	topMatch := topMatches[0]
	color.Cyan("\nBest Match: %s by %s (score: %.2f)", topMatch.Title, topMatch.Artist, topMatch.Score)
}

func serve(protocol, port string) {
	protocol = strings.ToLower(protocol)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/index", handleIndex)
	mux.HandleFunc("/api/match", handleMatch)
	mux.HandleFunc("/api/stats", handleStats)
	mux.HandleFunc("/api/entries", handleEntries)

	mux.Handle("/", http.FileServer(http.Dir("static")))

	handler := requestLogger(corsMiddleware(mux))

	log.Printf("starting server on port %s (%s)\n", port, protocol)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(rec, r)

		// skip noisy static file / stats polling logs
		if strings.HasPrefix(r.URL.Path, "/api/") {
			log.Printf("[http] %s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start))
		}
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func erase(songsDir string, dbOnly bool, all bool) {
	dbClient, err := db.NewDBClient()
	if err != nil {
		color.Red("error creating DB client: %v", err)
		return
	}
	defer dbClient.Close()

	if err := dbClient.DeleteCollection("fingerprints"); err != nil {
		fmt.Printf("error deleting fingerprints: %v\n", err)
	}

	if err := dbClient.DeleteCollection("songs"); err != nil {
		fmt.Printf("error deleting songs: %v\n", err)
	}

	color.Yellow("database cleared")

	if !all {
		fmt.Println("erase complete")
		return
	}

	err = filepath.Walk(songsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext == ".wav" || ext == ".m4a" || ext == ".mp3" || ext == ".flac" || ext == ".ogg" {
			return os.Remove(path)
		}
		return nil
	})
	if err != nil {
		fmt.Printf("error cleaning files in %s: %v\n", songsDir, err)
	}
	color.Yellow("audio files cleared")
	fmt.Println("erase complete")
}

func save(path string, force bool) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		color.Red("error: %v", err)
		return
	}

	if !fileInfo.IsDir() {
		if err := saveEntry(path, force); err != nil {
			color.Red("error saving (%v): %v", path, err)
		}
		return
	}

	var filePaths []string
	filepath.Walk(path, func(fp string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			filePaths = append(filePaths, fp)
		}
		return nil
	})

	processFilesConcurrently(filePaths, force)
}

func processFilesConcurrently(filePaths []string, force bool) {
	maxWorkers := runtime.NumCPU() / 2
	numFiles := len(filePaths)

	if numFiles == 0 {
		return
	}
	if numFiles < maxWorkers {
		maxWorkers = numFiles
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	jobs := make(chan string, numFiles)
	results := make(chan error, numFiles)

	for w := 0; w < maxWorkers; w++ {
		go func() {
			for fp := range jobs {
				results <- saveEntry(fp, force)
			}
		}()
	}

	for _, fp := range filePaths {
		jobs <- fp
	}
	close(jobs)

	successCount, errorCount := 0, 0
	for i := 0; i < numFiles; i++ {
		if err := <-results; err != nil {
			fmt.Printf("error: %v\n", err)
			errorCount++
		} else {
			successCount++
		}
	}

	fmt.Printf("\nprocessed %d files: %d successful, %d failed\n", numFiles, successCount, errorCount)
}

func saveEntry(filePath string, force bool) error {
	meta, err := wav.GetMetadata(filePath)

	title := ""
	author := ""

	if err == nil && meta != nil {
		title = meta.Title
		author = meta.Artist
	}

	if title == "" {
		if !force {
			return fmt.Errorf("no title metadata found for %q (use -f to index anyway)", filePath)
		}
		title = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}
	if author == "" {
		author = "unknown"
	}

	_, fpCount, err := processAndSave(filePath, title, author)
	if err != nil {
		return fmt.Errorf("failed to process '%s': %v", filePath, err)
	}

	color.Green("indexed '%s' by '%s' (%d fingerprints)", title, author, fpCount)
	return nil
}
