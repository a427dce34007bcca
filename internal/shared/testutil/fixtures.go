// Package testutil holds fixtures and log capture helpers shared by the
// package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// NetflixCSV is a three-title catalog covering both content types, a
// multi-director cell, a missing director and a missing date_added.
const NetflixCSV = `show_id,type,title,director,country,date_added,release_year,duration,listed_in,genre
s1,Movie,Alpha,"Ana, Bo",United States,"September 25, 2021",2000,90 min,Dramas,"Drama, Comedy"
s2,TV Show,Beta,,India,"September 24, 2021",2021,2 Seasons,TV Dramas,Drama
s3,Movie,Gamma,Ana,India,,2000,100 min,Dramas,Drama
`

// PNGHeader is the start of a PNG file, used as an unreadable upload.
const PNGHeader = "\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"

// WriteFixture writes content to name inside a fresh temp dir and returns
// the path.
func WriteFixture(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}
