package database

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	db *sql.DB
	m  *sync.Mutex
}

var schema = []string{
	`create table if not exists truco_results (
		id text not null primary key,
		game_code text,
		created_at text,
		winner_id text,
		winner_name text,
		reason text,
		rounds integer
	)`,
	`create table if not exists truco_result_players (
		result_id text not null,
		seat integer not null,
		player_id text,
		player_name text,
		score integer,
		primary key (result_id, seat)
	)`,
}

// New opens the results store. driver is "sqlite3" or "pgx". Queries use
// $n placeholders, which both drivers accept.
func New(driver, dsn string) (*Service, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}
	log.Infof("Results database ready (%s)", driver)

	return &Service{
		db: db,
		m:  &sync.Mutex{},
	}, nil
}

func (s *Service) Close() error {
	return s.db.Close()
}

func (s *Service) Insert(result GameResult) error {
	s.m.Lock()
	defer s.m.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec("INSERT INTO truco_results (id, game_code, created_at, winner_id, winner_name, reason, rounds) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		result.ID,
		result.GameCode,
		result.CreatedAt.UTC().Format(time.RFC3339),
		result.WinnerID,
		result.WinnerName,
		result.Reason,
		result.Rounds)
	if err != nil {
		return fmt.Errorf("insert result %s: %w", result.ID, err)
	}
	for _, p := range result.Players {
		_, err = tx.Exec("INSERT INTO truco_result_players (result_id, seat, player_id, player_name, score) VALUES ($1, $2, $3, $4, $5)",
			result.ID, p.Seat, p.PlayerID, p.PlayerName, p.Score)
		if err != nil {
			return fmt.Errorf("insert player %s for result %s: %w", p.PlayerID, result.ID, err)
		}
	}
	return tx.Commit()
}

func (s *Service) GetAll() ([]GameResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.query("SELECT id, game_code, created_at, winner_id, winner_name, reason, rounds FROM truco_results ORDER BY created_at")
}

func (s *Service) GetByID(id string) (GameResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	results, err := s.query("SELECT id, game_code, created_at, winner_id, winner_name, reason, rounds FROM truco_results WHERE id = $1", id)
	if err != nil {
		return GameResult{}, err
	}
	if len(results) == 0 {
		return GameResult{}, sql.ErrNoRows
	}
	return results[0], nil
}

func (s *Service) GetByPlayer(playerName string) ([]GameResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	results, err := s.query(
		"SELECT r.id, r.game_code, r.created_at, r.winner_id, r.winner_name, r.reason, r.rounds FROM truco_results r "+
			"WHERE r.id IN (SELECT result_id FROM truco_result_players WHERE player_name = $1) ORDER BY r.created_at",
		playerName)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, sql.ErrNoRows
	}
	return results, nil
}

// query runs a results query and attaches each result's players. Assumes lock is held.
func (s *Service) query(query string, args ...any) ([]GameResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []GameResult
	for rows.Next() {
		var result GameResult
		var createdAt string
		if err := rows.Scan(
			&result.ID,
			&result.GameCode,
			&createdAt,
			&result.WinnerID,
			&result.WinnerName,
			&result.Reason,
			&result.Rounds); err != nil {
			return nil, err
		}
		if result.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("bad created_at for result %s: %w", result.ID, err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		if results[i].Players, err = s.players(results[i].ID); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (s *Service) players(resultID string) ([]PlayerResult, error) {
	rows, err := s.db.Query("SELECT seat, player_id, player_name, score FROM truco_result_players WHERE result_id = $1 ORDER BY seat", resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []PlayerResult
	for rows.Next() {
		var p PlayerResult
		if err := rows.Scan(&p.Seat, &p.PlayerID, &p.PlayerName, &p.Score); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
