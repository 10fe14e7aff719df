// Package feed streams live workspace state to WebSocket subscribers.
//
// The serve command publishes a fresh snapshot whenever the watcher reindexes
// a catalog file; every subscriber receives the full snapshot on connect and
// again after each change.
package feed

import (
	"github.com/roostlabs/roost/internal/index"
)

// Record is the wire form of one indexed spawn record.
type Record struct {
	File        string  `json:"file"`
	Folder      string  `json:"folder"`
	Order       int     `json:"order"`
	Kind        string  `json:"kind"`
	Type        string  `json:"type"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Z           float64 `json:"z"`
	Orientation float64 `json:"orientation"`
	RotX        float64 `json:"rotX"`
	RotY        float64 `json:"rotY"`
	RotZ        float64 `json:"rotZ"`
}

// File summarizes one indexed catalog file.
type File struct {
	Path            string `json:"path"`
	RecordCount     int    `json:"recordCount"`
	DiagnosticCount int    `json:"diagnosticCount"`
	Mtime           int64  `json:"mtime"`
}

// Snapshot is the full indexed state of a workspace.
type Snapshot struct {
	Files   []File   `json:"files"`
	Records []Record `json:"records"`
}

// SnapshotMessage is the envelope broadcast to every subscriber.
type SnapshotMessage struct {
	Type       string    `json:"type"`
	Snapshot   *Snapshot `json:"snapshot"`
	ServerTime int64     `json:"serverTime"`
}

// ClientMessage is what subscribers may send back. Only pings are understood.
type ClientMessage struct {
	Type   string `json:"type"`
	SentAt int64  `json:"sentAt"`
}

// PongMessage answers a client ping, echoing the client timestamp so the
// client can compute its round-trip time.
type PongMessage struct {
	Type       string `json:"type"`
	SentAt     int64  `json:"sentAt"`
	ServerTime int64  `json:"serverTime"`
}

// BuildSnapshot reads the full record set out of the index.
func BuildSnapshot(db *index.Database) (*Snapshot, error) {
	files, err := db.Files()
	if err != nil {
		return nil, err
	}
	records, err := db.QueryRecords(index.RecordFilter{})
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Files:   make([]File, 0, len(files)),
		Records: make([]Record, 0, len(records)),
	}
	for _, f := range files {
		snap.Files = append(snap.Files, File{
			Path:            f.Path,
			RecordCount:     f.RecordCount,
			DiagnosticCount: f.DiagnosticCount,
			Mtime:           f.Mtime,
		})
	}
	for _, r := range records {
		snap.Records = append(snap.Records, Record{
			File:        r.FilePath,
			Folder:      r.Folder,
			Order:       r.Order,
			Kind:        r.Kind,
			Type:        r.Type,
			X:           r.X,
			Y:           r.Y,
			Z:           r.Z,
			Orientation: r.Orientation,
			RotX:        r.RotX,
			RotY:        r.RotY,
			RotZ:        r.RotZ,
		})
	}
	return snap, nil
}
