package data

// SampleCatalog возвращает встроенный каталог, используемый без файла каталога
func SampleCatalog() *Catalog {
	c, err := NewCatalog([]Track{
		{
			ID:         "1",
			Title:      "Ye",
			Artist:     "Burna Boy",
			Album:      "Outside",
			Duration:   "4:13",
			Genre:      "Afrobeats",
			Plays:      4500000,
			CoverColor: "green-yellow",
			Source:     "audio/Burna Boy - Ye [Official Audio].mp3",
		},
		{
			ID:         "2",
			Title:      "Touch it",
			Artist:     "KiDi",
			Album:      "Golden Boy",
			Duration:   "3:02",
			Genre:      "Afrobeats/Highlife",
			Plays:      3500000,
			CoverColor: "golden-purple",
			Source:     "audio/KiDi - Touch It (Lyrics) _ shut up and bend over song.mp3",
		},
		{
			ID:         "3",
			Title:      "Essence",
			Artist:     "Wizkid Ft. Tems",
			Album:      "Made in Lagos",
			Duration:   "4:10",
			Genre:      "Afrobeats",
			Plays:      12000000,
			CoverColor: "orange-brown",
			Source:     "audio/Wizkid - Essence (Audio) ft. Tems.mp3",
		},
		{
			ID:         "4",
			Title:      "Fall",
			Artist:     "Davido",
			Album:      "A Good Time",
			Duration:   "3:55",
			Genre:      "AfroPop",
			Plays:      15600000,
			CoverColor: "red-gold",
			Source:     "audio/Davido - Fall (official version).mp3",
		},
		{
			ID:         "5",
			Title:      "Aben Wo Ha",
			Artist:     "Daddy Lumba",
			Album:      "Aben Wo Ha",
			Duration:   "4:37",
			Genre:      "Highlife",
			Plays:      178000000,
			CoverColor: "blue-gold",
			Source:     "audio/Daddy Lumba - Aben Wo Ha (GHANA CLASSICS).mp3",
		},
		{
			ID:         "6",
			Title:      "Theresa",
			Artist:     "Daddy Lumba",
			Album:      "Theresa",
			Duration:   "5:10",
			Genre:      "Highlife",
			Plays:      950000000,
			CoverColor: "green-gold",
			Source:     "audio/Daddy Lumba - Theresa (Audio Slide).mp3",
		},
	}, samplePlaylists...)
	if err != nil {
		panic(err)
	}
	return c
}

var samplePlaylists = []Playlist{
	{Title: "Discover Weekly", TrackCount: 30, Gradient: "green-blue"},
	{Title: "Chill Vibes", TrackCount: 42, Gradient: "purple-pink"},
	{Title: "Workout Mix", TrackCount: 28, Gradient: "red-orange"},
	{Title: "Late Night", TrackCount: 35, Gradient: "indigo-purple"},
}
