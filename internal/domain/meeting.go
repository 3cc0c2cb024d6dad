package domain

import "time"

type Meeting struct {
	ID        string
	Topic     string
	StartTime time.Time
	Duration  time.Duration
	JoinURL   string
	Provider  Provider
}

type Recording struct {
	MeetingID   string
	FileType    string
	DownloadURL string
	RecordedAt  time.Time
}

type Transcript struct {
	Text    string
	Summary string
}

type Credits struct {
	Used      int
	Limit     int
	Remaining int
}

type GeneratedPost struct {
	Content     string
	ImageURL    string
	Suggestions []string
}
