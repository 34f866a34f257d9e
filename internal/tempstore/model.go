package tempstore

import "time"

// Entry is a stored document. Payloads handed out by the store are copies.
type Entry struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Payload     []byte    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	Downloaded  bool      `json:"downloaded"`
}

// Handle is a revocable, time-limited reference to an entry. Its token is
// what a client presents to fetch the payload.
type Handle struct {
	Token     string    `json:"token"`
	EntryID   string    `json:"entryId"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Stats summarizes the store contents.
type Stats struct {
	Total           int        `json:"total"`
	Downloaded      int        `json:"downloaded"`
	Pending         int        `json:"pending"`
	OldestCreatedAt *time.Time `json:"oldestCreatedAt,omitempty"`
}

// Saver is the host "save file" action used by ForceDownload. It receives a
// transient handle, valid while Save runs, and resolves it with Store.Open.
type Saver interface {
	Save(h Handle) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(h Handle) error

func (f SaverFunc) Save(h Handle) error {
	return f(h)
}

// Timer is the part of *time.Timer the store needs.
type Timer interface {
	Stop() bool
}

type record struct {
	Entry
	// pinned counts in-flight ForceDownload calls; sweeps skip pinned entries.
	pinned int
	// doomed marks an entry whose handle expired while pinned.
	doomed bool
}
