package models

// Draft is the single not-yet-submitted post being composed. It is persisted
// with the rest of the client state and cleared on successful submission.
type Draft struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category,omitempty"`
	MediaPath string `json:"media_path,omitempty"`
}

// Empty reports whether there is nothing worth keeping in the draft.
func (d Draft) Empty() bool {
	return d.Title == "" && d.Content == "" && d.MediaPath == ""
}
