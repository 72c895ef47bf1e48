package database

import (
	"database/sql"
	"log"
)

// migrationStatements is the full boot-time schema. Every statement is
// idempotent so the app can run the list on every start.
var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		phone VARCHAR(20),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS roles (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(50) UNIQUE NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS user_roles (
		user_id UUID NOT NULL REFERENCES users(id),
		role_id UUID NOT NULL REFERENCES roles(id),
		PRIMARY KEY (user_id, role_id)
	)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS students (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_number VARCHAR(20) UNIQUE NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		birthdate DATE NOT NULL,
		gender VARCHAR(10) NOT NULL,
		grade_level VARCHAR(20),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS guardians (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID UNIQUE NOT NULL REFERENCES users(id),
		phone VARCHAR(20),
		address TEXT,
		occupation VARCHAR(100),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS guardian_students (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		guardian_id UUID NOT NULL REFERENCES guardians(id),
		student_id UUID NOT NULL REFERENCES students(id),
		relationship_type VARCHAR(20) NOT NULL DEFAULT 'guardian',
		is_primary_contact BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (guardian_id, student_id)
	)`,

	`CREATE TABLE IF NOT EXISTS grade_level_fees (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		grade_level VARCHAR(20) NOT NULL,
		school_year VARCHAR(9) NOT NULL,
		tuition_fee_cents BIGINT NOT NULL DEFAULT 0 CHECK (tuition_fee_cents >= 0),
		misc_fee_cents BIGINT NOT NULL DEFAULT 0 CHECK (misc_fee_cents >= 0),
		lab_fee_cents BIGINT NOT NULL DEFAULT 0 CHECK (lab_fee_cents >= 0),
		library_fee_cents BIGINT NOT NULL DEFAULT 0 CHECK (library_fee_cents >= 0),
		sports_fee_cents BIGINT NOT NULL DEFAULT 0 CHECK (sports_fee_cents >= 0),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	// Soft-deleted schedules must not block re-creating the price list
	// for the same grade and year.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_fee_schedules_grade_year
		ON grade_level_fees (grade_level, school_year) WHERE deleted_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS enrollments (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_id UUID NOT NULL REFERENCES students(id),
		guardian_id UUID REFERENCES guardians(id),
		school_year VARCHAR(9) NOT NULL,
		quarter VARCHAR(10) NOT NULL,
		grade_level VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		tuition_fee_cents BIGINT NOT NULL DEFAULT 0,
		misc_fee_cents BIGINT NOT NULL DEFAULT 0,
		lab_fee_cents BIGINT NOT NULL DEFAULT 0,
		library_fee_cents BIGINT NOT NULL DEFAULT 0,
		sports_fee_cents BIGINT NOT NULL DEFAULT 0,
		total_amount_cents BIGINT NOT NULL DEFAULT 0,
		discount_cents BIGINT NOT NULL DEFAULT 0,
		net_amount_cents BIGINT NOT NULL DEFAULT 0,
		amount_paid_cents BIGINT NOT NULL DEFAULT 0,
		balance_cents BIGINT NOT NULL DEFAULT 0,
		payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
		approved_at TIMESTAMPTZ,
		approved_by UUID REFERENCES users(id),
		remarks VARCHAR(500),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	// One enrollment per (student, school_year), regardless of status.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_enrollments_student_year
		ON enrollments (student_id, school_year) WHERE deleted_at IS NULL`,

	// At most one pending and one enrolled row per student at any time.
	// These back the application-level eligibility checks so a concurrent
	// duplicate request cannot race past them.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_enrollments_one_pending
		ON enrollments (student_id) WHERE status = 'pending' AND deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_enrollments_one_enrolled
		ON enrollments (student_id) WHERE status = 'enrolled' AND deleted_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS invoices (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		enrollment_id UUID NOT NULL REFERENCES enrollments(id),
		invoice_number VARCHAR(30) UNIQUE NOT NULL,
		total_amount_cents BIGINT NOT NULL CHECK (total_amount_cents >= 0),
		paid_amount_cents BIGINT NOT NULL DEFAULT 0 CHECK (paid_amount_cents >= 0),
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		due_date DATE,
		issued_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		invoice_id UUID NOT NULL REFERENCES invoices(id),
		amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
		method VARCHAR(50) NOT NULL,
		payment_date DATE NOT NULL,
		reference VARCHAR(100),
		received_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS receipts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		payment_id UUID UNIQUE NOT NULL REFERENCES payments(id),
		receipt_number VARCHAR(20) UNIQUE NOT NULL,
		issued_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS documents (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_id UUID NOT NULL REFERENCES students(id),
		-- Cancelling a pending enrollment hard-deletes the row; any
		-- uploaded documents survive unlinked.
		enrollment_id UUID REFERENCES enrollments(id) ON DELETE SET NULL,
		document_type VARCHAR(30) NOT NULL,
		file_name VARCHAR(255) NOT NULL,
		file_path VARCHAR(500) NOT NULL,
		verification_status VARCHAR(20) NOT NULL DEFAULT 'pending',
		verified_by UUID REFERENCES users(id),
		verified_at TIMESTAMPTZ,
		rejection_reason TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id),
		event VARCHAR(50) NOT NULL,
		title VARCHAR(255) NOT NULL,
		message TEXT,
		read_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_enrollments_status ON enrollments (status)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices (status)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_status ON documents (verification_status)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at DESC)`,
}

// RunMigrations creates the schema if missing and applies incremental
// updates, then seeds the role table.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	for _, stmt := range migrationStatements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Migration failed: %v", err)
			return err
		}
	}

	if err := seedRoles(db); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func seedRoles(db *sql.DB) error {
	query := `
		INSERT INTO roles (name)
		SELECT unnest(ARRAY['super_admin', 'registrar', 'guardian', 'student'])
		ON CONFLICT (name) DO NOTHING
	`
	_, err := db.Exec(query)
	if err != nil {
		log.Printf("Failed to seed roles: %v", err)
	}
	return err
}
