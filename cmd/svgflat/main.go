// Command svgflat normalizes SVG files: each input is flattened to
// primitive shapes and laid out on a fixed inspection canvas.
// Files are processed independently; a bad input is reported with
// its name and never aborts the rest of the batch.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tdewolff/minify/v2"
	msvg "github.com/tdewolff/minify/v2/svg"

	"github.com/benoitkugler/svgflat/svgconvert"
)

const mimeType = "image/svg+xml"

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// result holds the outcome of one file conversion.
type result struct {
	path string
	err  error
}

var (
	source      = flag.String("in", "", "Source file or directory")
	destination = flag.String("out", "", "Destination file or directory")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	minified    = flag.Bool("minify", false, "Minify the normalized output")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	if *source == "" || *destination == "" {
		flag.Usage()
		os.Exit(2)
	}

	fs, err := os.Stat(*source)
	if err != nil {
		log.Fatalf("failed to load the source: %v", err)
	}

	var failed int
	switch {
	case fs.Mode().IsDir():
		failed = processDir(*source, *destination)
	case fs.Mode().IsRegular():
		err := processFile(*source, *destination)
		printStatus(result{path: *source, err: err})
		if err != nil {
			failed = 1
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// processDir converts every .svg file of the source tree
// concurrently, with a bounded worker pool. It returns the number of
// failed conversions.
func processDir(src, dst string) int {
	if err := os.MkdirAll(dst, 0755); err != nil {
		log.Fatalf("unable to create the destination directory: %v", err)
	}
	if *workers <= 0 || *workers > maxWorkers {
		*workers = runtime.NumCPU()
	}

	paths := make(chan string)
	results := make(chan result)

	go func() {
		defer close(paths)
		err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.Mode().IsRegular() && strings.EqualFold(filepath.Ext(path), ".svg") {
				paths <- path
			}
			return nil
		})
		if err != nil {
			log.Printf("directory walk: %v", err)
		}
	}()

	var wg sync.WaitGroup
	wg.Add(*workers)
	for i := 0; i < *workers; i++ {
		go func() {
			defer wg.Done()
			for path := range paths {
				out := filepath.Join(dst, filepath.Base(path))
				results <- result{path: path, err: processFile(path, out)}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	failed := 0
	for res := range results {
		printStatus(res)
		if res.err != nil {
			failed++
		}
	}
	return failed
}

// processFile converts one file and writes the normalized document.
func processFile(src, dst string) error {
	res, err := svgconvert.ConvertFile(src)
	if err != nil {
		return err
	}
	out := res.SVG
	if *minified {
		m := minify.New()
		m.AddFunc(mimeType, msvg.Minify)
		if out, err = m.Bytes(mimeType, out); err != nil {
			return fmt.Errorf("%s: minifying: %w", src, err)
		}
	}
	return os.WriteFile(dst, out, 0644)
}

func printStatus(res result) {
	if res.err != nil {
		log.Printf("✗ %v", res.err)
		return
	}
	log.Printf("✓ %s", res.path)
}
