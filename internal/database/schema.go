package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements holds the DDL for every table, in dependency order.
// The unique keys here are the authoritative guards for the booking
// invariants: a train number is globally unique, a carriage number is
// unique within its train, and the (carriage, seat, journey) triple is
// unique across all tickets.  Application code pre-checks the same
// conditions but the keys close the window between two concurrent
// transactions that both pass a pre-check.
//
// Cascade rules are explicit per entity: deleting a train removes its
// carriages and journeys, deleting a journey or an order removes its
// tickets, deleting a station removes routes through it.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'USER',
		is_active     TINYINT(1)   NOT NULL DEFAULT 1,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id)
			REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS train_types (
		id   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS trains (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		number        VARCHAR(8)   NOT NULL,
		train_type_id BIGINT UNSIGNED NOT NULL,
		image_url     VARCHAR(512) NULL,
		UNIQUE KEY uq_trains_number (number),
		CONSTRAINT fk_trains_type FOREIGN KEY (train_type_id)
			REFERENCES train_types (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS carriages (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		train_id      BIGINT UNSIGNED NOT NULL,
		carriage_type ENUM('Economy','Business','Premium') NOT NULL DEFAULT 'Economy',
		number        INT UNSIGNED NOT NULL,
		seats         INT UNSIGNED NOT NULL,
		UNIQUE KEY uq_carriages_train_number (train_id, number),
		CONSTRAINT fk_carriages_train FOREIGN KEY (train_id)
			REFERENCES trains (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS stations (
		id        BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name      VARCHAR(255) NOT NULL,
		latitude  DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS routes (
		id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name            VARCHAR(255) NOT NULL,
		distance        INT UNSIGNED NOT NULL,
		from_station_id BIGINT UNSIGNED NOT NULL,
		to_station_id   BIGINT UNSIGNED NOT NULL,
		CONSTRAINT fk_routes_from FOREIGN KEY (from_station_id)
			REFERENCES stations (id) ON DELETE CASCADE,
		CONSTRAINT fk_routes_to FOREIGN KEY (to_station_id)
			REFERENCES stations (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS crew (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(255) NOT NULL,
		last_name  VARCHAR(255) NOT NULL,
		image_url  VARCHAR(512) NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS journeys (
		id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		route_id       BIGINT UNSIGNED NOT NULL,
		train_id       BIGINT UNSIGNED NOT NULL,
		departure_time DATETIME NOT NULL,
		arrival_time   DATETIME NOT NULL,
		image_url      VARCHAR(512) NULL,
		CONSTRAINT fk_journeys_route FOREIGN KEY (route_id)
			REFERENCES routes (id) ON DELETE CASCADE,
		CONSTRAINT fk_journeys_train FOREIGN KEY (train_id)
			REFERENCES trains (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS journey_crew (
		journey_id BIGINT UNSIGNED NOT NULL,
		crew_id    BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (journey_id, crew_id),
		CONSTRAINT fk_journey_crew_journey FOREIGN KEY (journey_id)
			REFERENCES journeys (id) ON DELETE CASCADE,
		CONSTRAINT fk_journey_crew_crew FOREIGN KEY (crew_id)
			REFERENCES crew (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_orders_user FOREIGN KEY (user_id)
			REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tickets (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		order_id    BIGINT UNSIGNED NOT NULL,
		carriage_id BIGINT UNSIGNED NOT NULL,
		journey_id  BIGINT UNSIGNED NOT NULL,
		seat        INT UNSIGNED NOT NULL,
		UNIQUE KEY uq_tickets_seat (carriage_id, seat, journey_id),
		CONSTRAINT fk_tickets_order FOREIGN KEY (order_id)
			REFERENCES orders (id) ON DELETE CASCADE,
		CONSTRAINT fk_tickets_carriage FOREIGN KEY (carriage_id)
			REFERENCES carriages (id) ON DELETE CASCADE,
		CONSTRAINT fk_tickets_journey FOREIGN KEY (journey_id)
			REFERENCES journeys (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates all tables if they do not already exist.  It is
// called once at startup and is idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
