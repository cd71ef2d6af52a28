// Package export writes backup documents of the team to a directory or an
// S3-compatible bucket, on demand or on a schedule.
package export

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gosimple/slug"

	"github.com/amit/captainhub/internal/team"
)

const defaultName = "squadra"

// FileName returns the backup file name for a team exported at the given time
func FileName(teamName string, at time.Time) string {
	name := slug.Make(teamName)
	if name == "" {
		name = defaultName
	}
	return fmt.Sprintf("olimpiadi_%s_backup_%s.json", name, at.UTC().Format("2006-01-02"))
}

// Source provides the export document. *team.Engine satisfies it.
type Source interface {
	ExportSnapshot() team.ExportDocument
	Created() bool
}

// Result describes an archived backup
type Result struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Size     int    `json:"size"`
}

// Archiver writes export documents to a sink
type Archiver struct {
	src   Source
	sink  Sink
	audit team.Auditor
	now   func() time.Time
}

// NewArchiver builds an archiver. audit may be nil.
func NewArchiver(src Source, sink Sink, audit team.Auditor) *Archiver {
	return &Archiver{src: src, sink: sink, audit: audit, now: time.Now}
}

// Render returns the file name and body of a fresh export
func Render(src Source, at time.Time) (string, []byte, error) {
	doc := src.ExportSnapshot()
	data, err := team.MarshalExport(doc)
	if err != nil {
		return "", nil, err
	}
	return FileName(doc.TeamName, at), data, nil
}

// Archive exports the current team and stores it in the sink
func (a *Archiver) Archive(ctx context.Context) (Result, error) {
	doc := a.src.ExportSnapshot()
	data, err := team.MarshalExport(doc)
	if err != nil {
		return Result{}, err
	}
	name := FileName(doc.TeamName, a.now())
	location, err := a.sink.Put(ctx, name, data)
	if err != nil {
		return Result{}, fmt.Errorf("archive %s: %w", name, err)
	}

	res := Result{Name: name, Location: location, Size: len(data)}
	if a.audit != nil {
		a.audit.Audit("export_archived", "", doc.TeamName, map[string]interface{}{
			"name":     res.Name,
			"location": res.Location,
			"size":     res.Size,
		})
	}
	log.Printf("💾 Backup archived: %s (%d bytes)", location, len(data))
	return res, nil
}
