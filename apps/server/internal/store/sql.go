package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/DuckHunt-discord/Coroned-event/corona"
)

const queryTimeout = 5 * time.Second

// schema is valid for both SQLite and PostgreSQL.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS corona_players (
    identity BIGINT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    percent_infected INTEGER NOT NULL DEFAULT 0,
    total_infected_points INTEGER NOT NULL DEFAULT 0,
    total_cured_points INTEGER NOT NULL DEFAULT 0,
    maximum_infected_points INTEGER NOT NULL DEFAULT 0,
    cured BOOLEAN NOT NULL DEFAULT FALSE,
    doctor BOOLEAN NOT NULL DEFAULT FALSE,
    immunodeficient BOOLEAN NOT NULL DEFAULT FALSE,
    isolation INTEGER NOT NULL,
    touched_last_ms BIGINT NOT NULL,
    good INTEGER NOT NULL,
    law INTEGER NOT NULL,
    charisma INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS corona_inventories (
    identity BIGINT PRIMARY KEY REFERENCES corona_players(identity),
    education BIGINT NOT NULL DEFAULT 0,
    knowledge_points BIGINT NOT NULL DEFAULT 0,
    working_points BIGINT NOT NULL DEFAULT 0,
    research_points BIGINT NOT NULL DEFAULT 0,
    money BIGINT NOT NULL DEFAULT 0,
    soap BIGINT NOT NULL DEFAULT 0,
    food BIGINT NOT NULL DEFAULT 0,
    airplane_ticket BIGINT NOT NULL DEFAULT 0,
    lottery_ticket BIGINT NOT NULL DEFAULT 0,
    herb BIGINT NOT NULL DEFAULT 0,
    music_cd BIGINT NOT NULL DEFAULT 0,
    pill BIGINT NOT NULL DEFAULT 0,
    vaccine BIGINT NOT NULL DEFAULT 0,
    mask BIGINT NOT NULL DEFAULT 0,
    toilet_paper BIGINT NOT NULL DEFAULT 0,
    gun BIGINT NOT NULL DEFAULT 0,
    dagger BIGINT NOT NULL DEFAULT 0,
    virus_test BIGINT NOT NULL DEFAULT 0
)`,
	`CREATE TABLE IF NOT EXISTS corona_achievements (
    identity BIGINT PRIMARY KEY REFERENCES corona_players(identity),
    hospital_stay BOOLEAN NOT NULL DEFAULT FALSE,
    it_was_just_a_cold BOOLEAN NOT NULL DEFAULT FALSE,
    symptoms BOOLEAN NOT NULL DEFAULT FALSE,
    bad_symptoms BOOLEAN NOT NULL DEFAULT FALSE,
    tested_positive BOOLEAN NOT NULL DEFAULT FALSE,
    vaccined BOOLEAN NOT NULL DEFAULT FALSE,
    suicided BOOLEAN NOT NULL DEFAULT FALSE,
    murderer BOOLEAN NOT NULL DEFAULT FALSE,
    victim BOOLEAN NOT NULL DEFAULT FALSE,
    died BOOLEAN NOT NULL DEFAULT FALSE,
    cured BOOLEAN NOT NULL DEFAULT FALSE,
    traveler BOOLEAN NOT NULL DEFAULT FALSE,
    back_from_the_dead BOOLEAN NOT NULL DEFAULT FALSE
)`,
	`CREATE TABLE IF NOT EXISTS corona_statistics (
    identity BIGINT PRIMARY KEY REFERENCES corona_players(identity),
    worked_times BIGINT NOT NULL DEFAULT 0,
    researched_times BIGINT NOT NULL DEFAULT 0,
    hugs_given BIGINT NOT NULL DEFAULT 0,
    hugs_received BIGINT NOT NULL DEFAULT 0,
    made_vaccines BIGINT NOT NULL DEFAULT 0,
    heals BIGINT NOT NULL DEFAULT 0,
    been_eaten_times BIGINT NOT NULL DEFAULT 0,
    eaten_brains BIGINT NOT NULL DEFAULT 0
)`,
}

// Rows only carry driver-native column types (int64, bool, string).
type playerRow struct {
	Identity              int64  `db:"identity"`
	Name                  string `db:"name"`
	PercentInfected       int64  `db:"percent_infected"`
	TotalInfectedPoints   int64  `db:"total_infected_points"`
	TotalCuredPoints      int64  `db:"total_cured_points"`
	MaximumInfectedPoints int64  `db:"maximum_infected_points"`
	Cured                 bool   `db:"cured"`
	Doctor                bool   `db:"doctor"`
	Immunodeficient       bool   `db:"immunodeficient"`
	Isolation             int64  `db:"isolation"`
	TouchedLastMs         int64  `db:"touched_last_ms"`
	Good                  int64  `db:"good"`
	Law                   int64  `db:"law"`
	Charisma              int64  `db:"charisma"`
}

func newPlayerRow(p *corona.Player) playerRow {
	return playerRow{
		Identity:              int64(p.Identity),
		Name:                  p.Name,
		PercentInfected:       int64(p.PercentInfected),
		TotalInfectedPoints:   int64(p.TotalInfectedPoints),
		TotalCuredPoints:      int64(p.TotalCuredPoints),
		MaximumInfectedPoints: int64(p.MaximumInfectedPoints),
		Cured:                 p.Cured,
		Doctor:                p.Doctor,
		Immunodeficient:       p.Immunodeficient,
		Isolation:             int64(p.Isolation),
		TouchedLastMs:         p.TouchedLast.UnixMilli(),
		Good:                  int64(p.Good),
		Law:                   int64(p.Law),
		Charisma:              int64(p.Charisma),
	}
}

func (r playerRow) player() corona.Player {
	return corona.Player{
		Identity:              uint64(r.Identity),
		Name:                  r.Name,
		PercentInfected:       int(r.PercentInfected),
		TotalInfectedPoints:   int(r.TotalInfectedPoints),
		TotalCuredPoints:      int(r.TotalCuredPoints),
		MaximumInfectedPoints: int(r.MaximumInfectedPoints),
		Cured:                 r.Cured,
		Doctor:                r.Doctor,
		Immunodeficient:       r.Immunodeficient,
		Isolation:             corona.Isolation(r.Isolation),
		TouchedLast:           time.UnixMilli(r.TouchedLastMs).UTC(),
		Good:                  corona.Good(r.Good),
		Law:                   corona.Law(r.Law),
		Charisma:              int(r.Charisma),
	}
}

type inventoryRow struct {
	Identity int64 `db:"identity"`
	corona.Inventory
}

type achievementsRow struct {
	Identity int64 `db:"identity"`
	corona.Achievements
}

type statisticsRow struct {
	Identity int64 `db:"identity"`
	corona.Statistics
}

const (
	upsertPlayerSQL = `
INSERT INTO corona_players (
    identity, name, percent_infected, total_infected_points, total_cured_points,
    maximum_infected_points, cured, doctor, immunodeficient, isolation,
    touched_last_ms, good, law, charisma
)
VALUES (
    :identity, :name, :percent_infected, :total_infected_points, :total_cured_points,
    :maximum_infected_points, :cured, :doctor, :immunodeficient, :isolation,
    :touched_last_ms, :good, :law, :charisma
)
ON CONFLICT (identity) DO UPDATE
SET
    name = excluded.name,
    percent_infected = excluded.percent_infected,
    total_infected_points = excluded.total_infected_points,
    total_cured_points = excluded.total_cured_points,
    maximum_infected_points = excluded.maximum_infected_points,
    cured = excluded.cured,
    doctor = excluded.doctor,
    immunodeficient = excluded.immunodeficient,
    isolation = excluded.isolation,
    touched_last_ms = excluded.touched_last_ms,
    good = excluded.good,
    law = excluded.law,
    charisma = excluded.charisma`

	upsertInventorySQL = `
INSERT INTO corona_inventories (
    identity, education, knowledge_points, working_points, research_points, money,
    soap, food, airplane_ticket, lottery_ticket, herb, music_cd, pill, vaccine,
    mask, toilet_paper, gun, dagger, virus_test
)
VALUES (
    :identity, :education, :knowledge_points, :working_points, :research_points, :money,
    :soap, :food, :airplane_ticket, :lottery_ticket, :herb, :music_cd, :pill, :vaccine,
    :mask, :toilet_paper, :gun, :dagger, :virus_test
)
ON CONFLICT (identity) DO UPDATE
SET
    education = excluded.education,
    knowledge_points = excluded.knowledge_points,
    working_points = excluded.working_points,
    research_points = excluded.research_points,
    money = excluded.money,
    soap = excluded.soap,
    food = excluded.food,
    airplane_ticket = excluded.airplane_ticket,
    lottery_ticket = excluded.lottery_ticket,
    herb = excluded.herb,
    music_cd = excluded.music_cd,
    pill = excluded.pill,
    vaccine = excluded.vaccine,
    mask = excluded.mask,
    toilet_paper = excluded.toilet_paper,
    gun = excluded.gun,
    dagger = excluded.dagger,
    virus_test = excluded.virus_test`

	upsertAchievementsSQL = `
INSERT INTO corona_achievements (
    identity, hospital_stay, it_was_just_a_cold, symptoms, bad_symptoms,
    tested_positive, vaccined, suicided, murderer, victim, died, cured,
    traveler, back_from_the_dead
)
VALUES (
    :identity, :hospital_stay, :it_was_just_a_cold, :symptoms, :bad_symptoms,
    :tested_positive, :vaccined, :suicided, :murderer, :victim, :died, :cured,
    :traveler, :back_from_the_dead
)
ON CONFLICT (identity) DO UPDATE
SET
    hospital_stay = excluded.hospital_stay,
    it_was_just_a_cold = excluded.it_was_just_a_cold,
    symptoms = excluded.symptoms,
    bad_symptoms = excluded.bad_symptoms,
    tested_positive = excluded.tested_positive,
    vaccined = excluded.vaccined,
    suicided = excluded.suicided,
    murderer = excluded.murderer,
    victim = excluded.victim,
    died = excluded.died,
    cured = excluded.cured,
    traveler = excluded.traveler,
    back_from_the_dead = excluded.back_from_the_dead`

	upsertStatisticsSQL = `
INSERT INTO corona_statistics (
    identity, worked_times, researched_times, hugs_given, hugs_received,
    made_vaccines, heals, been_eaten_times, eaten_brains
)
VALUES (
    :identity, :worked_times, :researched_times, :hugs_given, :hugs_received,
    :made_vaccines, :heals, :been_eaten_times, :eaten_brains
)
ON CONFLICT (identity) DO UPDATE
SET
    worked_times = excluded.worked_times,
    researched_times = excluded.researched_times,
    hugs_given = excluded.hugs_given,
    hugs_received = excluded.hugs_received,
    made_vaccines = excluded.made_vaccines,
    heals = excluded.heals,
    been_eaten_times = excluded.been_eaten_times,
    eaten_brains = excluded.eaten_brains`
)

// sqlService is the database-backed Service shared by the SQLite and
// PostgreSQL backends; only the connection setup differs.
type sqlService struct {
	db        *sqlx.DB
	newPlayer NewPlayerFunc
}

func ensureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *sqlService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqlService) LoadPlayer(ctx context.Context, identity uint64, name string) (*corona.Player, error) {
	if identity == 0 {
		return nil, ErrInvalidIdentity
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := readPlayer(ctx, tx, identity)
	if errors.Is(err, sql.ErrNoRows) {
		// First sight: write the whole aggregate, then read it back so a
		// concurrent creator's row wins consistently.
		if err := insertPlayer(ctx, tx, s.newPlayer(identity, name)); err != nil {
			return nil, fmt.Errorf("create player %d: %w", identity, err)
		}
		p, err = readPlayer(ctx, tx, identity)
	}
	if err != nil {
		return nil, fmt.Errorf("load player %d: %w", identity, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if name != "" {
		p.Name = name
	}
	return p, nil
}

func readPlayer(ctx context.Context, tx *sqlx.Tx, identity uint64) (*corona.Player, error) {
	var row playerRow
	if err := tx.GetContext(ctx, &row, tx.Rebind(`SELECT * FROM corona_players WHERE identity = ?`), int64(identity)); err != nil {
		return nil, err
	}
	p := row.player()

	var inv inventoryRow
	if err := tx.GetContext(ctx, &inv, tx.Rebind(`SELECT * FROM corona_inventories WHERE identity = ?`), int64(identity)); err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}
	var ach achievementsRow
	if err := tx.GetContext(ctx, &ach, tx.Rebind(`SELECT * FROM corona_achievements WHERE identity = ?`), int64(identity)); err != nil {
		return nil, fmt.Errorf("achievements: %w", err)
	}
	var st statisticsRow
	if err := tx.GetContext(ctx, &st, tx.Rebind(`SELECT * FROM corona_statistics WHERE identity = ?`), int64(identity)); err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}
	p.Inventory = inv.Inventory
	p.Achievements = ach.Achievements
	p.Statistics = st.Statistics
	return &p, nil
}

func insertPlayer(ctx context.Context, tx *sqlx.Tx, p *corona.Player) error {
	stmts := []struct {
		query string
		arg   any
	}{
		{conflictDoNothing(upsertPlayerSQL), newPlayerRow(p)},
		{conflictDoNothing(upsertInventorySQL), inventoryRow{Identity: int64(p.Identity), Inventory: p.Inventory}},
		{conflictDoNothing(upsertAchievementsSQL), achievementsRow{Identity: int64(p.Identity), Achievements: p.Achievements}},
		{conflictDoNothing(upsertStatisticsSQL), statisticsRow{Identity: int64(p.Identity), Statistics: p.Statistics}},
	}
	for _, st := range stmts {
		if _, err := tx.NamedExecContext(ctx, st.query, st.arg); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqlService) SavePlayers(ctx context.Context, players ...*corona.Player) error {
	players = dedupe(players)
	if len(players) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range players {
		if p.Identity == 0 {
			return ErrInvalidIdentity
		}
		if _, err := tx.NamedExecContext(ctx, upsertPlayerSQL, newPlayerRow(p)); err != nil {
			return fmt.Errorf("save player %d: %w", p.Identity, err)
		}
		if _, err := tx.NamedExecContext(ctx, upsertInventorySQL, inventoryRow{Identity: int64(p.Identity), Inventory: p.Inventory}); err != nil {
			return fmt.Errorf("save inventory %d: %w", p.Identity, err)
		}
		if _, err := tx.NamedExecContext(ctx, upsertAchievementsSQL, achievementsRow{Identity: int64(p.Identity), Achievements: p.Achievements}); err != nil {
			return fmt.Errorf("save achievements %d: %w", p.Identity, err)
		}
		if _, err := tx.NamedExecContext(ctx, upsertStatisticsSQL, statisticsRow{Identity: int64(p.Identity), Statistics: p.Statistics}); err != nil {
			return fmt.Errorf("save statistics %d: %w", p.Identity, err)
		}
	}
	return tx.Commit()
}

func (s *sqlService) Stats(ctx context.Context) (corona.GlobalStats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var st corona.GlobalStats
	err := s.db.GetContext(ctx, &st, `
SELECT
    (SELECT COUNT(1) FROM corona_achievements WHERE tested_positive) AS infected,
    (SELECT COUNT(1) FROM corona_statistics WHERE made_vaccines > 0) AS vaccine_makers,
    (SELECT COUNT(1) FROM corona_players) AS players`)
	if err != nil {
		return st, fmt.Errorf("query stats: %w", err)
	}
	return st, nil
}

// conflictDoNothing turns an upsert into an insert that keeps an existing
// row untouched.
func conflictDoNothing(upsert string) string {
	if i := strings.Index(upsert, "ON CONFLICT (identity) DO UPDATE"); i >= 0 {
		return upsert[:i] + "ON CONFLICT (identity) DO NOTHING"
	}
	return upsert
}
