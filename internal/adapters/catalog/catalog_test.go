package catalog_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/songsim/internal/adapters/catalog"
	"github.com/okian/songsim/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

const header = "artist_name,track_name,track_id,popularity,year,genre,danceability,energy,key,loudness,mode,speechiness,acousticness,instrumentalness,liveness,valence,tempo,duration_ms,time_signature"

func sampleSongs() []model.Song {
	return []model.Song{
		{
			TrackID: "t1", TrackName: "First Light", ArtistName: "Aster", Genre: "rock",
			Popularity: 70, Year: 2001, Danceability: 0.5, Energy: 0.8, Key: 4,
			Loudness: -5.2, Mode: 1, Speechiness: 0.04, Acousticness: 0.1,
			Instrumentalness: 0, Liveness: 0.12, Valence: 0.6, Tempo: 121.5,
			DurationMS: 215000, TimeSignature: 4,
		},
		{
			TrackID: "t2", TrackName: "Low Tide", ArtistName: "Brine", Genre: "ambient",
			Popularity: 12, Year: 2019, Danceability: 0.2, Energy: 0.1, Key: 9,
			Loudness: -18.75, Mode: 0, Speechiness: 0.03, Acousticness: 0.95,
			Instrumentalness: 0.88, Liveness: 0.09, Valence: 0.15, Tempo: 64,
			DurationMS: 402000, TimeSignature: 3,
		},
	}
}

func TestReadCSV(t *testing.T) {
	convey.Convey("Given CSV catalog input", t, func() {
		ctx := context.Background()

		convey.Convey("When the columns are reordered and an extra column is present", func() {
			input := "extra,track_id,track_name,artist_name,popularity,year,genre,danceability,energy,key,loudness,mode,speechiness,acousticness,instrumentalness,liveness,valence,tempo,duration_ms,time_signature\n" +
				"x,abc,Song A,Artist,55,2010,pop,0.5,0.6,2,-6.1,1,0.05,0.2,0,0.1,0.4,118,200000,4\n"

			songs, err := catalog.ReadCSV(ctx, strings.NewReader(input))

			convey.Convey("Then fields are mapped by header name", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(songs, convey.ShouldHaveLength, 1)
				convey.So(songs[0].TrackID, convey.ShouldEqual, "abc")
				convey.So(songs[0].TrackName, convey.ShouldEqual, "Song A")
				convey.So(songs[0].Popularity, convey.ShouldEqual, 55)
				convey.So(songs[0].Key, convey.ShouldEqual, 2)
				convey.So(songs[0].Tempo, convey.ShouldEqual, 118)
			})
		})

		convey.Convey("When a required column is missing", func() {
			input := strings.Replace(header, ",tempo", "", 1) + "\n"

			_, err := catalog.ReadCSV(ctx, strings.NewReader(input))

			convey.Convey("Then ErrMissingColumn names it", func() {
				convey.So(errors.Is(err, catalog.ErrMissingColumn), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "tempo")
			})
		})

		convey.Convey("When a field does not parse", func() {
			input := header + "\n" +
				"Artist,Song,id1,55,2010,pop,0.5,0.6,2,-6.1,1,0.05,0.2,0,0.1,0.4,118,200000,4\n" +
				"Artist,Song,id2,loud,2010,pop,0.5,0.6,2,-6.1,1,0.05,0.2,0,0.1,0.4,118,200000,4\n"

			_, err := catalog.ReadCSV(ctx, strings.NewReader(input))

			convey.Convey("Then ErrMalformedRecord names the line and column", func() {
				convey.So(errors.Is(err, catalog.ErrMalformedRecord), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "line 3")
				convey.So(err.Error(), convey.ShouldContainSubstring, `"popularity"`)
			})
		})

		convey.Convey("When a record is out of range", func() {
			input := header + "\n" +
				"Artist,Song,id1,55,2010,pop,0.5,0.6,12,-6.1,1,0.05,0.2,0,0.1,0.4,118,200000,4\n"

			_, err := catalog.ReadCSV(ctx, strings.NewReader(input))

			convey.Convey("Then it is rejected as malformed", func() {
				convey.So(errors.Is(err, catalog.ErrMalformedRecord), convey.ShouldBeTrue)
				convey.So(errors.Is(err, model.ErrInvalidSong), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a row has the wrong number of fields", func() {
			input := header + "\nArtist,Song,id1\n"

			_, err := catalog.ReadCSV(ctx, strings.NewReader(input))

			convey.Convey("Then it is rejected as malformed", func() {
				convey.So(errors.Is(err, catalog.ErrMalformedRecord), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the input is empty", func() {
			_, err := catalog.ReadCSV(ctx, strings.NewReader(""))

			convey.Convey("Then the header is reported missing", func() {
				convey.So(errors.Is(err, catalog.ErrMissingColumn), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the input has only a header", func() {
			songs, err := catalog.ReadCSV(ctx, strings.NewReader(header+"\n"))

			convey.Convey("Then no songs are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(songs, convey.ShouldBeEmpty)
			})
		})
	})
}

func TestWriteCSVRoundTrip(t *testing.T) {
	convey.Convey("Given songs written with WriteCSV", t, func() {
		var buf bytes.Buffer
		err := catalog.WriteCSV(&buf, sampleSongs())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the header matches the column list", func() {
			first, _, _ := strings.Cut(buf.String(), "\n")
			convey.So(first, convey.ShouldEqual, header)
		})

		convey.Convey("Then ReadCSV returns the same songs in order", func() {
			songs, err := catalog.ReadCSV(context.Background(), &buf)
			convey.So(err, convey.ShouldBeNil)
			convey.So(songs, convey.ShouldResemble, sampleSongs())
		})
	})
}

func TestSources(t *testing.T) {
	convey.Convey("Given catalog files on disk", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		convey.Convey("When loading a CSV file", func() {
			path := filepath.Join(dir, "songs.csv")
			f, err := os.Create(path)
			convey.So(err, convey.ShouldBeNil)
			convey.So(catalog.WriteCSV(f, sampleSongs()), convey.ShouldBeNil)
			convey.So(f.Close(), convey.ShouldBeNil)

			src, err := catalog.NewSource(path)
			convey.So(err, convey.ShouldBeNil)
			songs, err := src.Load(ctx)

			convey.Convey("Then the songs are loaded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(songs, convey.ShouldResemble, sampleSongs())
			})
		})

		convey.Convey("When loading a SQLite database", func() {
			path := filepath.Join(dir, "songs.db")
			convey.So(catalog.WriteSQLite(ctx, path, "tracks", sampleSongs()), convey.ShouldBeNil)

			src, err := catalog.NewSource(path, catalog.WithTable("tracks"))
			convey.So(err, convey.ShouldBeNil)
			songs, err := src.Load(ctx)

			convey.Convey("Then the songs are loaded in rowid order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(songs, convey.ShouldResemble, sampleSongs())
			})
		})

		convey.Convey("When the SQLite table name is not an identifier", func() {
			src := catalog.NewSQLiteSource(filepath.Join(dir, "x.db"), catalog.WithTable("songs; DROP"))
			_, err := src.Load(ctx)

			convey.Convey("Then it is rejected before opening", func() {
				convey.So(errors.Is(err, catalog.ErrOpenCatalog), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, errCSV := catalog.NewCSVSource(filepath.Join(dir, "missing.csv")).Load(ctx)
			_, errDB := catalog.NewSQLiteSource(filepath.Join(dir, "missing.db")).Load(ctx)

			convey.Convey("Then both sources report ErrOpenCatalog", func() {
				convey.So(errors.Is(errCSV, catalog.ErrOpenCatalog), convey.ShouldBeTrue)
				convey.So(errors.Is(errDB, catalog.ErrOpenCatalog), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the extension is unknown", func() {
			_, err := catalog.NewSource(filepath.Join(dir, "songs.parquet"))

			convey.Convey("Then ErrUnsupportedFormat is returned", func() {
				convey.So(errors.Is(err, catalog.ErrUnsupportedFormat), convey.ShouldBeTrue)
			})
		})
	})
}
