package dataset

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var fetchClient = &http.Client{Timeout: 60 * time.Second}

// frameCache avoids refetching the same source within a process. Parsed
// frames are never mutated after Load, so sharing is safe.
var frameCache, _ = lru.New[string, *Frame](4)

// Load fetches and prepares the dataset from a URL or a local file path.
func Load(source string) (*Frame, error) {
	if source == "" {
		source = DefaultURL
	}
	if frame, ok := frameCache.Get(source); ok {
		return frame, nil
	}

	var frame *Frame
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		frame, err = fetch(source)
	} else {
		frame, err = loadFile(source)
	}
	if err != nil {
		return nil, err
	}
	frameCache.Add(source, frame)
	return frame, nil
}

func fetch(url string) (*Frame, error) {
	resp, err := fetchClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching dataset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &DataError{Reason: fmt.Sprintf("fetching dataset: status %d", resp.StatusCode)}
	}

	// The published CSV is not guaranteed to be UTF-8; decode
	// tolerantly before parsing.
	utf8Reader := transform.NewReader(resp.Body, charmap.Windows1252.NewDecoder())
	return Parse(utf8Reader)
}

func loadFile(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer file.Close()
	return Parse(file)
}
