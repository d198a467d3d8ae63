package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'ticket_status') THEN
			CREATE TYPE ticket_status AS ENUM ('open', 'accepted', 'in_progress', 'return_needed', 'completed', 'rejected');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'ticket_priority') THEN
			CREATE TYPE ticket_priority AS ENUM ('low', 'medium', 'high');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'bid_status') THEN
			CREATE TYPE bid_status AS ENUM ('pending', 'accepted', 'rejected', 'counter');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'work_order_status') THEN
			CREATE TYPE work_order_status AS ENUM ('completed', 'return_needed');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS organizations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		type VARCHAR(32) NOT NULL,
		contact_name VARCHAR(255) NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		phone VARCHAR(64) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		org_id UUID NOT NULL REFERENCES organizations(id),
		full_name VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS technicians (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		org_id UUID NOT NULL REFERENCES organizations(id),
		full_name VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		org_id UUID NOT NULL REFERENCES organizations(id),
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		priority ticket_priority NOT NULL DEFAULT 'medium',
		status ticket_status NOT NULL DEFAULT 'open',
		vendor_id UUID REFERENCES organizations(id),
		assignee_id UUID REFERENCES technicians(id),
		marketplace BOOLEAN NOT NULL DEFAULT FALSE,
		created_by_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_org_id ON tickets (org_id);`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_marketplace ON tickets (marketplace) WHERE marketplace;`,
	`CREATE TABLE IF NOT EXISTS bids (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		ticket_id UUID NOT NULL REFERENCES tickets(id),
		vendor_id UUID NOT NULL REFERENCES organizations(id),
		total_amount NUMERIC(18,2) NOT NULL,
		hourly_rate NUMERIC(18,2),
		estimated_hours NUMERIC(10,2),
		response_time VARCHAR(128) NOT NULL DEFAULT '',
		additional_notes TEXT NOT NULL DEFAULT '',
		status bid_status NOT NULL DEFAULT 'pending',
		rejection_reason TEXT,
		counter_offer NUMERIC(18,2),
		counter_notes TEXT,
		version INT NOT NULL DEFAULT 1,
		is_superseded BOOLEAN NOT NULL DEFAULT FALSE,
		superseded_by_bid_id UUID REFERENCES bids(id),
		previous_bid_id UUID REFERENCES bids(id),
		approved_by_user_id UUID REFERENCES users(id),
		approved_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_bids_active_per_vendor_ticket
		ON bids (ticket_id, vendor_id) WHERE NOT is_superseded;`,
	`CREATE INDEX IF NOT EXISTS idx_bids_ticket_id ON bids (ticket_id);`,
	`CREATE INDEX IF NOT EXISTS idx_bids_vendor_id ON bids (vendor_id);`,
	`CREATE TABLE IF NOT EXISTS work_orders (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		ticket_id UUID NOT NULL REFERENCES tickets(id),
		technician_name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status work_order_status NOT NULL,
		hours_worked NUMERIC(10,2) NOT NULL DEFAULT 0,
		hourly_rate NUMERIC(18,2) NOT NULL DEFAULT 0,
		parts_json JSONB NOT NULL DEFAULT '{"version":1,"items":[]}',
		other_charges_json JSONB NOT NULL DEFAULT '{"version":1,"items":[]}',
		total_cost NUMERIC(18,2) NOT NULL DEFAULT 0,
		completion_notes TEXT NOT NULL DEFAULT '',
		images TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_work_orders_ticket_id ON work_orders (ticket_id);`,
	`CREATE TABLE IF NOT EXISTS parts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		vendor_id UUID NOT NULL REFERENCES organizations(id),
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		cost NUMERIC(18,2) NOT NULL,
		markup_percentage NUMERIC(8,2) NOT NULL DEFAULT 0,
		round_to_ninety_nine BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_parts_vendor_id ON parts (vendor_id);`,
	`CREATE TABLE IF NOT EXISTS part_price_history (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		part_id UUID NOT NULL REFERENCES parts(id),
		old_cost NUMERIC(18,2) NOT NULL,
		new_cost NUMERIC(18,2) NOT NULL,
		markup_percentage NUMERIC(8,2) NOT NULL,
		round_to_ninety_nine BOOLEAN NOT NULL,
		changed_by_user_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_part_price_history_part_id ON part_price_history (part_id);`,
	`CREATE SEQUENCE IF NOT EXISTS invoice_number_seq;`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		ticket_id UUID NOT NULL REFERENCES tickets(id),
		org_id UUID NOT NULL REFERENCES organizations(id),
		invoice_number VARCHAR(64) NOT NULL,
		subtotal NUMERIC(18,2) NOT NULL,
		tax_scope VARCHAR(16) NOT NULL,
		tax_percentage NUMERIC(8,2) NOT NULL,
		tax_amount NUMERIC(18,2) NOT NULL,
		discount NUMERIC(18,2) NOT NULL DEFAULT 0,
		total NUMERIC(18,2) NOT NULL,
		net_days INT NOT NULL,
		payment_terms VARCHAR(32) NOT NULL,
		issued_at TIMESTAMPTZ NOT NULL,
		due_date TIMESTAMPTZ NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_by_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_invoices_number ON invoices (invoice_number);`,
	`CREATE TABLE IF NOT EXISTS invoice_lines (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		invoice_id UUID NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
		line_no INT NOT NULL,
		work_order_id UUID NOT NULL REFERENCES work_orders(id),
		hours NUMERIC(10,2) NOT NULL,
		hourly_rate NUMERIC(18,2) NOT NULL,
		labor_cost NUMERIC(18,2) NOT NULL,
		parts_cost NUMERIC(18,2) NOT NULL,
		other_cost NUMERIC(18,2) NOT NULL,
		line_total NUMERIC(18,2) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS calendar_events (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		technician_id UUID NOT NULL REFERENCES technicians(id),
		ticket_id UUID REFERENCES tickets(id),
		title VARCHAR(255) NOT NULL DEFAULT '',
		start_at TIMESTAMPTZ NOT NULL,
		end_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_calendar_events_technician ON calendar_events (technician_id, start_at);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
