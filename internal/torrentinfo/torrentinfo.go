// Package torrentinfo lists the file names carried by torrents and magnet
// links, so that each of them can be guessed.
package torrentinfo

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/anacrolix/torrent/metainfo"
)

// ErrNoName is returned for magnet links without a display name.
var ErrNoName = errors.New("magnet link has no display name")

// File is one file of a torrent.
type File struct {
	Path   string `json:"path" yaml:"path"`
	Length int64  `json:"length" yaml:"length"`
}

// IsMagnet tells magnet links from torrent file paths.
func IsMagnet(s string) bool {
	return strings.HasPrefix(s, "magnet:")
}

// Files returns the files of a .torrent file or, for a magnet link, its
// display name.
func Files(target string) ([]File, error) {
	if IsMagnet(target) {
		return magnetFiles(target)
	}

	mi, err := metainfo.LoadFromFile(target)
	if err != nil {
		return nil, fmt.Errorf("load torrent %s: %w", target, err)
	}
	return metaInfoFiles(mi)
}

func magnetFiles(uri string) ([]File, error) {
	spec, err := metainfo.ParseMagnetUri(uri)
	if err != nil {
		return nil, fmt.Errorf("parse magnet: %w", err)
	}
	if spec.DisplayName == "" {
		return nil, ErrNoName
	}
	return []File{{Path: spec.DisplayName}}, nil
}

func metaInfoFiles(mi *metainfo.MetaInfo) ([]File, error) {
	info, err := mi.UnmarshalInfo()
	if err != nil {
		return nil, fmt.Errorf("decode info: %w", err)
	}

	files := info.UpvertedFiles()
	out := make([]File, 0, len(files))
	for i := range files {
		p := files[i].DisplayPath(&info)
		if info.IsDir() {
			p = path.Join(info.BestName(), p)
		}
		out = append(out, File{Path: p, Length: files[i].Length})
	}
	return out, nil
}
