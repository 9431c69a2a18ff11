// Package journal keeps a durable record of retention sweeps in SQLite.
//
// Every sweep a Retainer runs is stored with its trigger, window, cutoff and
// the files it deleted or failed to delete, so "what removed this file, and
// when" can be answered after the fact:
//
//	j, err := journal.Open(&journal.Config{Path: "data/logkeeper.db", WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer j.Close()
//
//	r, err := retention.New(w, cfg, retention.WithJournal(j))
//
// Two drivers are supported. "sqlite" (modernc.org/sqlite) is pure Go and
// the default; "sqlite3" (github.com/mattn/go-sqlite3) needs cgo.
package journal
