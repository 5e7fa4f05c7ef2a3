package services

import "testing"

func TestParseSongAndArtist(t *testing.T) {
	tc := []struct {
		name       string
		title      string
		channel    string
		wantSong   string
		wantArtist string
	}{
		{
			name:       "official video and vevo",
			title:      "Song Title (Official Video) [4K]",
			channel:    "ArtistVEVO",
			wantSong:   "Song Title",
			wantArtist: "Artist",
		},
		{
			name:       "topic channel",
			title:      "Midnight City",
			channel:    "M83 - Topic",
			wantSong:   "Midnight City",
			wantArtist: "M83",
		},
		{
			name:       "pipe suffix",
			title:      "Tum Hi Ho | Aashiqui 2 | Arijit Singh",
			channel:    "T-Series",
			wantSong:   "Tum Hi Ho",
			wantArtist: "T-Series",
		},
		{
			name:       "promotional phrases any case",
			title:      "Blinding Lights OFFICIAL VIDEO lyric video Audio",
			channel:    "The Weeknd",
			wantSong:   "Blinding Lights",
			wantArtist: "The Weeknd",
		},
		{
			name:       "title song and full video",
			title:      "Kal Ho Naa Ho Title Song Full Video",
			channel:    "SonyMusicIndiaVEVO",
			wantSong:   "Kal Ho Naa Ho",
			wantArtist: "SonyMusicIndia",
		},
		{
			name:       "cleanup empties title",
			title:      "(Official Audio)",
			channel:    "",
			wantSong:   "(Official Audio)",
			wantArtist: UnknownArtist,
		},
		{
			name:       "empty title",
			title:      "   ",
			channel:    "VEVO",
			wantSong:   UnknownTitle,
			wantArtist: UnknownArtist,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			song, artist := ParseSongAndArtist(tt.title, tt.channel)
			if song != tt.wantSong {
				t.Errorf("song = %q, want %q", song, tt.wantSong)
			}
			if artist != tt.wantArtist {
				t.Errorf("artist = %q, want %q", artist, tt.wantArtist)
			}
		})
	}
}

func TestParseISODuration(t *testing.T) {
	tc := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "PT3M35S", want: 215},
		{in: "PT1H2M5S", want: 3725},
		{in: "PT45S", want: 45},
		{in: "P1DT1S", want: 86401},
		{in: "PT", wantErr: true},
		{in: "3:35", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseISODuration(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
