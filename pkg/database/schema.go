package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema for the practice
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	tables := []string{
		createPatientsTable,
		createDoctorsTable,
		createAppointmentsTable,
		createMedicalNotesTable,
		createConsentsTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		createPatientsIndexes,
		createDoctorsIndexes,
		createAppointmentsIndexes,
		createMedicalNotesIndexes,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

// SQL DDL statements for table creation
const (
	createPatientsTable = `
		CREATE TABLE IF NOT EXISTS patients (
			patient_id BIGSERIAL PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			date_of_birth DATE NOT NULL,
			gender VARCHAR(20),
			address TEXT,
			phone VARCHAR(30),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createDoctorsTable = `
		CREATE TABLE IF NOT EXISTS doctors (
			doctor_id BIGSERIAL PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			specialty VARCHAR(100),
			phone VARCHAR(30),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createAppointmentsTable = `
		CREATE TABLE IF NOT EXISTS appointments (
			appointment_id BIGSERIAL PRIMARY KEY,
			patient_id BIGINT NOT NULL REFERENCES patients(patient_id) ON DELETE CASCADE,
			doctor_id BIGINT NOT NULL REFERENCES doctors(doctor_id) ON DELETE CASCADE,
			appointment_date DATE NOT NULL,
			appointment_time TIME NOT NULL,
			reason TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			UNIQUE (doctor_id, appointment_date, appointment_time)
		);`

	createMedicalNotesTable = `
		CREATE TABLE IF NOT EXISTS medical_notes (
			note_id BIGSERIAL PRIMARY KEY,
			patient_id BIGINT NOT NULL REFERENCES patients(patient_id) ON DELETE CASCADE,
			doctor_id BIGINT NOT NULL REFERENCES doctors(doctor_id) ON DELETE CASCADE,
			note_date DATE NOT NULL,
			note_details TEXT NOT NULL,
			medication TEXT,
			treatment TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createConsentsTable = `
		CREATE TABLE IF NOT EXISTS consents (
			subject_role VARCHAR(20) NOT NULL,
			subject_id BIGINT NOT NULL,
			data_processing BOOLEAN NOT NULL DEFAULT TRUE,
			marketing BOOLEAN NOT NULL DEFAULT FALSE,
			analytics BOOLEAN NOT NULL DEFAULT TRUE,
			version VARCHAR(10) NOT NULL DEFAULT '1.0',
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			PRIMARY KEY (subject_role, subject_id)
		);`
)

// SQL DDL statements for index creation
const (
	createPatientsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_patients_email ON patients(email);`

	createDoctorsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_doctors_email ON doctors(email);
		CREATE INDEX IF NOT EXISTS idx_doctors_specialty ON doctors(specialty);`

	createAppointmentsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments(patient_id);
		CREATE INDEX IF NOT EXISTS idx_appointments_doctor ON appointments(doctor_id);
		CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(appointment_date);`

	createMedicalNotesIndexes = `
		CREATE INDEX IF NOT EXISTS idx_medical_notes_patient ON medical_notes(patient_id);
		CREATE INDEX IF NOT EXISTS idx_medical_notes_doctor ON medical_notes(doctor_id);`
)
