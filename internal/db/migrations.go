package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'complaint_status') THEN
			CREATE TYPE complaint_status AS ENUM ('pending', 'validated', 'assigned', 'in_progress', 'completed', 'resolved', 'emergency', 'escalated');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'complaint_priority') THEN
			CREATE TYPE complaint_priority AS ENUM ('low', 'medium', 'high');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'complaint_category') THEN
			CREATE TYPE complaint_category AS ENUM ('ELECTRICAL', 'PLUMBING', 'CARPENTRY', 'CLEANING', 'INTERNET', 'FURNITURE', 'MEDICAL', 'OTHER');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS complaints (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category complaint_category NOT NULL,
		location TEXT NOT NULL,
		hostel TEXT NOT NULL,
		status complaint_status NOT NULL DEFAULT 'pending',
		priority complaint_priority NOT NULL DEFAULT 'medium',
		is_emergency BOOLEAN NOT NULL DEFAULT FALSE,
		assigned_to UUID,
		validated_by UUID,
		validated_at TIMESTAMPTZ,
		deadline TIMESTAMPTZ,
		progress_photo_url TEXT,
		completion_photo_url TEXT,
		resolution_notes TEXT,
		worker_rating INTEGER,
		worker_feedback TEXT,
		rated_at TIMESTAMPTZ,
		escalated_to VARCHAR(20),
		escalated_at TIMESTAMPTZ,
		upvote_count INTEGER NOT NULL DEFAULT 0,
		resolved_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_complaints_rating CHECK (worker_rating IS NULL OR (worker_rating >= 1 AND worker_rating <= 5))
	);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_user_id ON complaints (user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_assigned_to ON complaints (assigned_to);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints (status);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_location ON complaints (location text_pattern_ops);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_hostel ON complaints (hostel);`,
	`CREATE TABLE IF NOT EXISTS complaint_upvotes (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		complaint_id UUID NOT NULL REFERENCES complaints(id) ON DELETE CASCADE,
		user_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_complaint_upvotes_pair ON complaint_upvotes (complaint_id, user_id);`,
	`CREATE TABLE IF NOT EXISTS worker_ratings (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		worker_id UUID NOT NULL,
		complaint_id UUID NOT NULL REFERENCES complaints(id) ON DELETE CASCADE,
		rated_by UUID NOT NULL,
		rating INTEGER NOT NULL CHECK (rating >= 1 AND rating <= 5),
		feedback TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_worker_ratings_worker_id ON worker_ratings (worker_id);`,
	`CREATE INDEX IF NOT EXISTS idx_worker_ratings_complaint_id ON worker_ratings (complaint_id);`,
	`CREATE TABLE IF NOT EXISTS complaint_events (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		complaint_id UUID NOT NULL REFERENCES complaints(id) ON DELETE CASCADE,
		action VARCHAR(50) NOT NULL,
		performed_by UUID,
		from_status complaint_status NOT NULL,
		to_status complaint_status NOT NULL,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_complaint_events_complaint_id ON complaint_events (complaint_id);`,
	`CREATE OR REPLACE FUNCTION set_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_complaints_updated_at') THEN
			CREATE TRIGGER trg_complaints_updated_at
				BEFORE UPDATE ON complaints
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
