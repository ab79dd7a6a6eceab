package postgres

import (
	"context"
	"errors"

	"github.com/TC28082003/datanaver/internal/domain/profile"
	"github.com/TC28082003/datanaver/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfilesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewProfilesRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProfilesRepo {
	return &ProfilesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ProfilesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Get returns the raw stored document. The JSONB columns come back as raw
// JSON bytes; normalization to defaults is the caller's concern.
func (r *ProfilesRepo) Get(ctx context.Context, userID int64) (profile.Document, error) {
	var doc profile.Document
	var savedProfiles, savedProfilesParent, virtualProfiles, virtualProfilesData []byte

	err := r.observe("user_data.get", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT saved_profiles, saved_profiles_parent, last_visited_profile, virtual_profiles, virtual_profiles_data
			 FROM user_data
			 WHERE user_id = $1`,
			userID,
		).Scan(
			&savedProfiles,
			&savedProfilesParent,
			&doc.LastVisitedProfile,
			&virtualProfiles,
			&virtualProfilesData,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Document{}, ErrProfileNotFound
		}

		return profile.Document{}, err
	}

	doc.SavedProfiles = savedProfiles
	doc.SavedProfilesParent = savedProfilesParent
	doc.VirtualProfiles = virtualProfiles
	doc.VirtualProfilesData = virtualProfilesData

	return doc, nil
}

// Upsert replaces the whole document in a single atomic statement: insert a
// new row if none exists, otherwise overwrite all five fields and bump
// updated_at.
func (r *ProfilesRepo) Upsert(ctx context.Context, userID int64, doc profile.Document) error {
	return r.observe("user_data.upsert", func() error {
		_, err := r.pool.Exec(
			ctx,
			`INSERT INTO user_data (user_id, saved_profiles, saved_profiles_parent, last_visited_profile, virtual_profiles, virtual_profiles_data)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (user_id) DO UPDATE SET
				saved_profiles = EXCLUDED.saved_profiles,
				saved_profiles_parent = EXCLUDED.saved_profiles_parent,
				last_visited_profile = EXCLUDED.last_visited_profile,
				virtual_profiles = EXCLUDED.virtual_profiles,
				virtual_profiles_data = EXCLUDED.virtual_profiles_data,
				updated_at = NOW()`,
			userID,
			[]byte(doc.SavedProfiles),
			[]byte(doc.SavedProfilesParent),
			doc.LastVisitedProfile,
			[]byte(doc.VirtualProfiles),
			[]byte(doc.VirtualProfilesData),
		)

		return err
	})
}
