package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"foodHub/models"
)

type CartSqlRepo struct {
	db     *sql.DB
	driver string
}

// NewCartSqlRepository keeps cart slots in a CartSlots table. driver is the
// name the connection was opened with ("sqlite3" or "postgres").
func NewCartSqlRepository(conn *sql.DB, driver string) (CartRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	if driver != "sqlite3" && driver != "postgres" {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	_, err = conn.Exec("CREATE TABLE IF NOT EXISTS CartSlots (Slot TEXT PRIMARY KEY, Data TEXT NOT NULL, UpdatedAt TIMESTAMP NOT NULL)")
	if err != nil {
		return nil, err
	}
	return &CartSqlRepo{
		db:     conn,
		driver: driver,
	}, nil
}

func (c *CartSqlRepo) SetCart(slot string, data []byte) (err error) {
	query := "INSERT INTO CartSlots (Slot, Data, UpdatedAt) VALUES ($1, $2, $3) " +
		"ON CONFLICT (Slot) DO UPDATE SET Data = excluded.Data, UpdatedAt = excluded.UpdatedAt"
	if c.driver == "sqlite3" {
		query = "INSERT INTO CartSlots (Slot, Data, UpdatedAt) VALUES (?, ?, ?) " +
			"ON CONFLICT (Slot) DO UPDATE SET Data = excluded.Data, UpdatedAt = excluded.UpdatedAt"
	}
	_, err = c.db.Exec(query, slot, string(data), time.Now().UTC())
	if err != nil {
		log.Printf("SetCart: %v", err)
		err = models.ErrServerError
	}
	return
}

func (c *CartSqlRepo) GetCart(slot string) (data []byte, exists bool, err error) {
	query := "SELECT Data FROM CartSlots WHERE Slot = $1"
	if c.driver == "sqlite3" {
		query = "SELECT Data FROM CartSlots WHERE Slot = ?"
	}
	var raw string
	err = c.db.QueryRow(query, slot).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
		} else {
			log.Printf("GetCart: %v", err)
			err = models.ErrServerError
		}
		return
	}
	data = []byte(raw)
	exists = true
	return
}
