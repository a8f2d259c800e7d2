package domain

import "time"

type Settings struct {
	URL              string     `db:"url" json:"url"`
	LastFetched      *time.Time `db:"last_fetched" json:"lastFetched,omitempty"`
	ChannelsSavePath string     `db:"channels_save_path" json:"channelsSavePath"`
	MoviesSavePath   string     `db:"movies_save_path" json:"moviesSavePath"`
	SeriesSavePath   string     `db:"series_save_path" json:"seriesSavePath"`
}
