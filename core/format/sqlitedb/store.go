package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"

	"fortio.org/safecast"

	"github.com/FocuswithJustin/earmark/core/cas"
	"github.com/FocuswithJustin/earmark/core/earmark"
	"github.com/FocuswithJustin/earmark/core/errors"
)

// Save writes doc into db, replacing any document already stored there.
func Save(ctx context.Context, db *sql.DB, doc *earmark.Document) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewIO("begin", "", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "creating schema")
	}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.Wrapf(err, "clearing %s", table)
		}
	}

	s := earmark.TakeSnapshot(doc)
	if _, err := tx.ExecContext(ctx, `INSERT INTO document (id, schema_version) VALUES (?, ?)`, s.ID, SchemaVersion); err != nil {
		return errors.Wrap(err, "inserting document")
	}
	if err := saveDocuverses(ctx, tx, s.Docuverses); err != nil {
		return err
	}
	if err := saveRanges(ctx, tx, s.Ranges); err != nil {
		return err
	}
	if err := saveMarkupItems(ctx, tx, s); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO assertions (position, triple) VALUES (?, ?)`)
	if err != nil {
		return errors.Wrap(err, "preparing assertions")
	}
	defer stmt.Close()
	for i, line := range s.Assertions {
		if _, err := stmt.ExecContext(ctx, i, line); err != nil {
			return errors.Wrap(err, "inserting assertion")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewIO("commit", "", err)
	}
	return nil
}

func saveDocuverses(ctx context.Context, tx *sql.Tx, records []earmark.DocuverseRecord) error {
	content, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO content (hash, body) VALUES (?, ?)`)
	if err != nil {
		return errors.Wrap(err, "preparing content")
	}
	defer content.Close()
	dvs, err := tx.PrepareContext(ctx, `INSERT INTO docuverses (id, kind, content_hash) VALUES (?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "preparing docuverses")
	}
	defer dvs.Close()

	for _, rec := range records {
		hash := cas.Blake3String(rec.Source)
		if _, err := content.ExecContext(ctx, hash, rec.Source); err != nil {
			return errors.Wrapf(err, "inserting content of %s", rec.ID)
		}
		if _, err := dvs.ExecContext(ctx, rec.ID, rec.Kind, hash); err != nil {
			return errors.Wrapf(err, "inserting docuverse %s", rec.ID)
		}
	}
	return nil
}

func saveRanges(ctx context.Context, tx *sql.Tx, records []earmark.RangeRecord) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ranges (id, kind, docuverse, begin_offset, end_offset, xpath) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "preparing ranges")
	}
	defer stmt.Close()
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Kind, rec.Docuverse, nullOffset(rec.Begin), nullOffset(rec.End), rec.XPath); err != nil {
			return errors.Wrapf(err, "inserting range %s", rec.ID)
		}
	}
	return nil
}

func saveMarkupItems(ctx context.Context, tx *sql.Tx, s *earmark.Snapshot) error {
	items, err := tx.PrepareContext(ctx, `INSERT INTO markup_items (id, kind, gi, ns, container) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "preparing markup items")
	}
	defer items.Close()
	children, err := tx.PrepareContext(ctx, `INSERT INTO children (parent, position, child) VALUES (?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "preparing children")
	}
	defer children.Close()

	link := func(parent string, kids []string) error {
		for i, kid := range kids {
			if _, err := children.ExecContext(ctx, parent, i, kid); err != nil {
				return errors.Wrapf(err, "inserting child %d of %q", i, parent)
			}
		}
		return nil
	}
	for _, rec := range s.MarkupItems {
		if _, err := items.ExecContext(ctx, rec.ID, rec.Kind, rec.GeneralIdentifier, rec.Namespace, rec.Container); err != nil {
			return errors.Wrapf(err, "inserting markup item %s", rec.ID)
		}
		if err := link(rec.ID, rec.Children); err != nil {
			return err
		}
	}
	return link("", s.Roots)
}

func nullOffset(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func offset(n sql.NullInt64) (*int, error) {
	if !n.Valid {
		return nil, nil
	}
	v, err := safecast.Conv[int](n.Int64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Load reads the document stored in db.
func Load(ctx context.Context, db *sql.DB, opts ...earmark.Option) (*earmark.Document, error) {
	s := &earmark.Snapshot{}
	var version int
	err := db.QueryRowContext(ctx, `SELECT id, schema_version FROM document`).Scan(&s.ID, &version)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("document", "")
	}
	if err != nil {
		return nil, &errors.ParseError{Format: Name, Message: "reading document table", Err: err}
	}
	if version != SchemaVersion {
		return nil, errors.NewUnsupported(Name, fmt.Sprintf("schema version %d", version))
	}

	if err := loadDocuverses(ctx, db, s); err != nil {
		return nil, err
	}
	if err := loadRanges(ctx, db, s); err != nil {
		return nil, err
	}
	if err := loadMarkupItems(ctx, db, s); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT triple FROM assertions ORDER BY position`)
	if err != nil {
		return nil, errors.Wrap(err, "querying assertions")
	}
	defer rows.Close()
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, errors.Wrap(err, "scanning assertion")
		}
		s.Assertions = append(s.Assertions, line)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "reading assertions")
	}
	return s.Restore(opts...)
}

func loadDocuverses(ctx context.Context, db *sql.DB, s *earmark.Snapshot) error {
	rows, err := db.QueryContext(ctx, `
		SELECT d.id, d.kind, c.hash, c.body
		FROM docuverses d JOIN content c ON c.hash = d.content_hash
		ORDER BY d.id`)
	if err != nil {
		return errors.Wrap(err, "querying docuverses")
	}
	defer rows.Close()
	for rows.Next() {
		var rec earmark.DocuverseRecord
		var hash string
		if err := rows.Scan(&rec.ID, &rec.Kind, &hash, &rec.Source); err != nil {
			return errors.Wrap(err, "scanning docuverse")
		}
		if cas.Blake3String(rec.Source) != hash {
			return errors.NewParse(Name, "", fmt.Sprintf("content of docuverse %s does not match its hash", rec.ID))
		}
		s.Docuverses = append(s.Docuverses, rec)
	}
	return rows.Err()
}

func loadRanges(ctx context.Context, db *sql.DB, s *earmark.Snapshot) error {
	rows, err := db.QueryContext(ctx, `SELECT id, kind, docuverse, begin_offset, end_offset, xpath FROM ranges ORDER BY id`)
	if err != nil {
		return errors.Wrap(err, "querying ranges")
	}
	defer rows.Close()
	for rows.Next() {
		var rec earmark.RangeRecord
		var begin, end sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Docuverse, &begin, &end, &rec.XPath); err != nil {
			return errors.Wrap(err, "scanning range")
		}
		if rec.Begin, err = offset(begin); err != nil {
			return errors.NewValidation("ranges.begin_offset", err.Error())
		}
		if rec.End, err = offset(end); err != nil {
			return errors.NewValidation("ranges.end_offset", err.Error())
		}
		s.Ranges = append(s.Ranges, rec)
	}
	return rows.Err()
}

func loadMarkupItems(ctx context.Context, db *sql.DB, s *earmark.Snapshot) error {
	kids := make(map[string][]string)
	rows, err := db.QueryContext(ctx, `SELECT parent, child FROM children ORDER BY parent, position`)
	if err != nil {
		return errors.Wrap(err, "querying children")
	}
	defer rows.Close()
	for rows.Next() {
		var parent, child string
		if err := rows.Scan(&parent, &child); err != nil {
			return errors.Wrap(err, "scanning child")
		}
		kids[parent] = append(kids[parent], child)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	s.Roots = kids[""]

	items, err := db.QueryContext(ctx, `SELECT id, kind, gi, ns, container FROM markup_items ORDER BY id`)
	if err != nil {
		return errors.Wrap(err, "querying markup items")
	}
	defer items.Close()
	for items.Next() {
		var rec earmark.MarkupRecord
		if err := items.Scan(&rec.ID, &rec.Kind, &rec.GeneralIdentifier, &rec.Namespace, &rec.Container); err != nil {
			return errors.Wrap(err, "scanning markup item")
		}
		rec.Children = kids[rec.ID]
		s.MarkupItems = append(s.MarkupItems, rec)
	}
	return items.Err()
}
