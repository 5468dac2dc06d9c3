// Package rosterstore archives scraped rosters in a sqlite (or libsql)
// database, one set of rows per club that is replaced on every scrape.
package rosterstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"squadscraper/lib/squad"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

const Schema = `
create table if not exists player (
	club text not null,
	idx integer not null,
	name text not null,
	number text not null,
	position text not null,
	nationality text not null,
	appearances text not null,
	clean_sheets text not null,
	goals text not null,
	assists text not null,
	scraped_at integer not null,
	primary key (club, idx)
);
`

type Store struct {
	db *sql.DB
}

func isRemote(dsn string) bool {
	for _, prefix := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(dsn, prefix) {
			return true
		}
	}
	return false
}

// Open connects to dsn, a libsql/turso URL or a local sqlite file path, and
// makes sure the schema exists.
func Open(ctx context.Context, dsn string) (Store, error) {
	var database *sql.DB
	var err error

	if isRemote(dsn) {
		database, err = sql.Open("libsql", dsn)
		if err != nil {
			return Store{}, err
		}
	} else {
		if dsn != ":memory:" {
			err = os.MkdirAll(filepath.Dir(dsn), 0755)
			if err != nil {
				return Store{}, err
			}
		}
		database, err = sql.Open("sqlite", dsn)
		if err != nil {
			return Store{}, err
		}
		// sqlite only allows one writer at a time, see
		// https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
		database.SetMaxOpenConns(1)
		_, err = database.ExecContext(ctx, "PRAGMA journal_mode=WAL")
		if err != nil {
			database.Close()
			return Store{}, err
		}
	}

	_, err = database.ExecContext(ctx, Schema)
	if err != nil {
		database.Close()
		return Store{}, err
	}
	return Store{db: database}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

// Replace removes every archived player of club and inserts players in their
// page order.
func (s Store) Replace(ctx context.Context, club string, players []squad.Player, scrapedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "delete from player where club = ?", club)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `insert into player (
		club, idx, name, number, position, nationality,
		appearances, clean_sheets, goals, assists, scraped_at
	) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range players {
		_, err = stmt.ExecContext(
			ctx,
			club, i, p.Name, p.Number, p.Position, p.Nationality,
			p.Appearances, p.CleanSheets, p.Goals, p.Assists, scrapedAt.Unix(),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Players returns the archived roster of club in page order.
func (s Store) Players(ctx context.Context, club string) ([]squad.Player, error) {
	rows, err := s.db.QueryContext(ctx, `select
		club, name, number, position, nationality,
		appearances, clean_sheets, goals, assists
	from player where club = ? order by idx`, club)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []squad.Player
	for rows.Next() {
		var p squad.Player
		err = rows.Scan(
			&p.Team, &p.Name, &p.Number, &p.Position, &p.Nationality,
			&p.Appearances, &p.CleanSheets, &p.Goals, &p.Assists,
		)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// Clubs lists every club that has an archived roster.
func (s Store) Clubs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "select distinct club from player order by club")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clubs []string
	for rows.Next() {
		var club string
		err = rows.Scan(&club)
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, club)
	}
	return clubs, rows.Err()
}
