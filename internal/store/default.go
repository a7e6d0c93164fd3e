// Package store keeps sealed replays and the score they produced in a
// sqlite database.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/hitcore/internal/game"
	"git.lost.host/meutraa/hitcore/internal/replay"
	"git.lost.host/meutraa/hitcore/internal/score"
	"git.lost.host/meutraa/hitcore/internal/timing"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("replay not found")

type Record struct {
	Replay  replay.Replay
	State   score.State
	Created time.Time
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

const initStatement = `
create table if not exists replays
  (
	  id text not null primary key,
	  sum text not null,
	  player text,
	  preset text,
	  mods integer,
	  rate real,
	  frames blob,
	  state blob,
	  created integer
  );
create index if not exists replays_sum on replays(sum);
`

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if nil != s.db {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Save(r replay.Replay, st score.State) error {
	h := r.Header()
	frames, err := json.Marshal(compactFrames(r.Frames()))
	if nil != err {
		return fmt.Errorf("unable to marshal frames: %w", err)
	}
	preset, err := json.Marshal(h.Preset)
	if nil != err {
		return fmt.Errorf("unable to marshal preset: %w", err)
	}
	state, err := json.Marshal(st)
	if nil != err {
		return fmt.Errorf("unable to marshal state: %w", err)
	}
	_, err = s.db.Exec(
		"insert into replays(id, sum, player, preset, mods, rate, frames, state, created) values(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		h.ID.String(), h.MapIdentity, h.PlayerName, string(preset), int64(h.Mods.Flags), h.Mods.Rate, frames, state, s.now().UnixNano(),
	)
	if nil != err {
		return fmt.Errorf("unable to save replay %v: %w", h.ID, err)
	}
	return nil
}

const selectColumns = "select id, sum, player, preset, mods, rate, frames, state, created from replays"

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		id, sum, player, preset string
		mods                    int64
		rate                    float64
		frames, state           []byte
		created                 int64
	)
	if err := row.Scan(&id, &sum, &player, &preset, &mods, &rate, &frames, &state, &created); nil != err {
		return Record{}, err
	}

	rid, err := uuid.Parse(id)
	if nil != err {
		return Record{}, fmt.Errorf("replay id %q: %w", id, err)
	}
	var p timing.Preset
	if err := json.Unmarshal([]byte(preset), &p); nil != err {
		return Record{}, fmt.Errorf("replay %v preset: %w", rid, err)
	}
	var fc framesCompact
	if err := json.Unmarshal(frames, &fc); nil != err {
		return Record{}, fmt.Errorf("replay %v frames: %w", rid, err)
	}
	var st score.State
	if err := json.Unmarshal(state, &st); nil != err {
		return Record{}, fmt.Errorf("replay %v state: %w", rid, err)
	}

	h := replay.Header{
		ID:          rid,
		MapIdentity: sum,
		Preset:      p,
		PlayerName:  player,
	}
	h.Mods.Flags = game.Mod(mods)
	h.Mods.Rate = rate
	return Record{
		Replay:  replay.New(h, uncompactFrames(fc)),
		State:   st,
		Created: time.Unix(0, created),
	}, nil
}

// Load returns every stored replay of a map, oldest first. Rows that no
// longer decode are logged and skipped.
func (s *Store) Load(mapIdentity string) ([]Record, error) {
	records := []Record{}
	rows, err := s.db.Query(selectColumns+" where sum = ? order by created, id", mapIdentity)
	if nil != err {
		return nil, fmt.Errorf("unable to load replays: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		r, err := scanRecord(rows)
		if nil != err {
			log.Println("unable to read replay history", err)
			continue
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) Get(id uuid.UUID) (Record, error) {
	r, err := scanRecord(s.db.QueryRow(selectColumns+" where id = ?", id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	return r, err
}
