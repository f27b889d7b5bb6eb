package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"cinematch/internal/config"
)

// Sample catalog shared by command and server tests. Every movie is rated 4.5
// by user 1, so all five qualify at the default threshold:
//
//	Alien and Aliens share the tags scifi and horror
//	Solaris is tagged scifi
//	Amelie is tagged romance
//	Mute only carries an empty tag
const (
	SampleRatingsCSV = `userId,movieId,rating,timestamp
1,1,4.5,964982703
1,2,4.5,964982703
1,3,4.5,964982703
1,4,4.5,964982703
1,5,4.5,964982703
2,6,1.0,964982703
`
	SampleTagsCSV = `userId,movieId,tag,timestamp
1,1,scifi,1445714994
1,1,horror,1445714994
1,2,horror,1445714994
1,2,scifi,1445714994
1,3,scifi,1445714994
1,4,romance,1445714994
1,5,,1445714994
2,6,bad,1445714994
`
	SampleMoviesCSV = `movieId,title,genres
1,Alien,Horror|Sci-Fi
2,Aliens,Action|Sci-Fi
3,Solaris,Drama|Sci-Fi
4,Amelie,Comedy|Romance
5,Mute,Drama
6,Disaster,Action
`
)

// WriteDataset writes the three CSV bodies to the dataset paths in cfg.
func WriteDataset(t testing.TB, cfg *config.Config, ratings, tags, movies string) {
	t.Helper()
	WriteText(t, cfg.Datasets.RatingsPath, ratings)
	WriteText(t, cfg.Datasets.TagsPath, tags)
	WriteText(t, cfg.Datasets.MoviesPath, movies)
}

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
