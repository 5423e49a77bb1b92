package torrentinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anacrolix/torrent/bencode"
	"github.com/anacrolix/torrent/metainfo"
	"github.com/stretchr/testify/require"
)

func writeTorrent(t *testing.T, info metainfo.Info) string {
	t.Helper()
	require := require.New(t)

	b, err := bencode.Marshal(info)
	require.NoError(err)

	mi := metainfo.MetaInfo{InfoBytes: b}

	p := filepath.Join(t.TempDir(), "test.torrent")
	f, err := os.Create(p)
	require.NoError(err)
	defer f.Close()

	require.NoError(mi.Write(f))
	return p
}

func TestFilesMultiFile(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	p := writeTorrent(t, metainfo.Info{
		Name:        "Show.S01.720p.HDTV",
		PieceLength: 1 << 14,
		Files: []metainfo.FileInfo{
			{Path: []string{"Show.S01E01.720p.HDTV.mkv"}, Length: 10},
			{Path: []string{"Subs", "Show.S01E01.srt"}, Length: 2},
		},
	})

	files, err := Files(p)
	require.NoError(err)
	require.Equal([]File{
		{Path: "Show.S01.720p.HDTV/Show.S01E01.720p.HDTV.mkv", Length: 10},
		{Path: "Show.S01.720p.HDTV/Subs/Show.S01E01.srt", Length: 2},
	}, files)
}

func TestFilesSingleFile(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	p := writeTorrent(t, metainfo.Info{
		Name:        "The.Matrix.1999.1080p.BluRay.x264-GROUP.mkv",
		PieceLength: 1 << 14,
		Length:      42,
	})

	files, err := Files(p)
	require.NoError(err)
	require.Equal([]File{{Path: "The.Matrix.1999.1080p.BluRay.x264-GROUP.mkv", Length: 42}}, files)
}

func TestFilesMagnet(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	files, err := Files("magnet:?xt=urn:btih:c9e15763f722f23e98a29decdfae341b98d53056&dn=Alien.1979.DTS.mkv")
	require.NoError(err)
	require.Equal([]File{{Path: "Alien.1979.DTS.mkv"}}, files)

	_, err = Files("magnet:?xt=urn:btih:c9e15763f722f23e98a29decdfae341b98d53056")
	require.ErrorIs(err, ErrNoName)

	_, err = Files("magnet:?WRONG")
	require.Error(err)
}

func TestFilesMissing(t *testing.T) {
	t.Parallel()

	_, err := Files(filepath.Join(t.TempDir(), "missing.torrent"))
	require.Error(t, err)
}
