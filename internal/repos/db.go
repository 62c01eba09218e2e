package repos

import (
	"errors"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"soleconnect/internal/domain"
)

// ErrNotFound is returned by strict lookups and strict deletes.
var ErrNotFound = errors.New("not found")

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: keeps :memory: databases coherent and serializes
	// writers, which sqlite wants anyway.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Demo catalog + accounts so a fresh checkout has something to browse.
	// Both seeds are idempotent; safe to run every start.
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

// now is the canonical timestamp format for created_at/updated_at. RFC3339
// with nanoseconds in UTC sorts lexicographically, which the newest-first
// catalog ordering relies on.
func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Listings: one shoe offered for sale
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  brand TEXT NOT NULL,
  category TEXT NOT NULL,
  condition TEXT NOT NULL CHECK (condition IN ('new','used','refurbished')),
  price NUMERIC NOT NULL CHECK (price > 0),
  original_price NUMERIC NOT NULL DEFAULT 0,
  sizes_json TEXT,
  colors_json TEXT,
  images_json TEXT,
  tags_json TEXT,
  seller_id TEXT NOT NULL,
  seller_name TEXT NOT NULL,
  shop_id TEXT NOT NULL DEFAULT '',
  views INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_listings_category   ON listings(category);
CREATE INDEX IF NOT EXISTS idx_listings_condition  ON listings(condition);
CREATE INDEX IF NOT EXISTS idx_listings_seller     ON listings(seller_id);
CREATE INDEX IF NOT EXISTS idx_listings_shop       ON listings(shop_id);
CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at);

-- Shops: a seller's storefront
CREATE TABLE IF NOT EXISTS shops(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  logo TEXT NOT NULL DEFAULT '',
  banner TEXT NOT NULL DEFAULT '',
  owner_id TEXT NOT NULL,
  owner_name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  website TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  zip_code TEXT NOT NULL DEFAULT '',
  lat REAL NOT NULL DEFAULT 0,
  lng REAL NOT NULL DEFAULT 0,
  categories_json TEXT,
  is_physical INTEGER NOT NULL DEFAULT 0,
  is_featured INTEGER NOT NULL DEFAULT 0,
  rating REAL NOT NULL DEFAULT 0,
  total_reviews INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_shops_owner      ON shops(owner_id);
CREATE INDEX IF NOT EXISTS idx_shops_featured   ON shops(is_featured);
CREATE INDEX IF NOT EXISTS idx_shops_created_at ON shops(created_at);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('BUYER','SELLER','ADMIN')),
  store_name TEXT NOT NULL DEFAULT '',
  business_type TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM listings`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo shops/listings")

	ts := now()
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO shops(id,name,description,owner_id,owner_name,email,city,state,categories_json,is_physical,is_featured,is_active,created_at,updated_at) VALUES
	  ('shop-kicks','Kicks Corner','Curated sneakers, new and deadstock.','u-sara','Sara Vee','sara@kickscorner.test','Austin','TX','["Sneakers","Running"]',1,1,1,?,?),
	  ('shop-sole','Second Sole','Pre-owned boots and heels, inspected and restored.','u-marco','Marco Lund','marco@secondsole.test','Portland','OR','["Boots","Heels"]',0,0,1,?,?)`,
		ts, ts, ts, ts)

	tx.MustExec(`INSERT INTO listings(id,name,description,brand,category,condition,price,original_price,sizes_json,colors_json,images_json,tags_json,seller_id,seller_name,shop_id,views,is_active,created_at,updated_at) VALUES
	  ('lst-aj1','Air Jordan 1 Mid','Lightly worn, original box included.','Nike','Sneakers','used',149.99,220,'["9","9.5","10"]','["red","black"]','["listings/lst-aj1/main.jpg"]','["jordan","basketball"]','u-sara','Sara Vee','shop-kicks',0,1,?,?),
	  ('lst-ultra','Ultraboost 22','Brand new, never laced.','Adidas','Running','new',129.00,0,'["8","10","11"]','["white"]','["listings/lst-ultra/main.jpg"]','["boost","running"]','u-sara','Sara Vee','shop-kicks',0,1,?,?),
	  ('lst-chelsea','Leather Chelsea Boot','Refurbished soles, conditioned leather.','Blundstone','Boots','refurbished',89.50,160,'["10","11"]','["brown"]','["listings/lst-chelsea/main.jpg"]','["chelsea","leather"]','u-marco','Marco Lund','shop-sole',0,1,?,?)`,
		ts, ts, ts, ts, ts, ts)

	return tx.Commit()
}

// seedUsers ensures one account per role exists (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, First, Last, Hash, Store, Biz string
		Role                                     domain.Role
	}
	mk := func(id, email, first, last string, role domain.Role, store, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		biz := ""
		if store != "" {
			biz = "independent"
		}
		return u{ID: id, Email: email, First: first, Last: last, Hash: string(h), Role: role, Store: store, Biz: biz}
	}

	users := []u{
		mk("u-ben", "ben@soleconnect.test", "Ben", "Okafor", domain.RoleBuyer, "", "Passw0rd!"),
		mk("u-sara", "sara@kickscorner.test", "Sara", "Vee", domain.RoleSeller, "Kicks Corner", "Passw0rd!"),
		mk("u-marco", "marco@secondsole.test", "Marco", "Lund", domain.RoleSeller, "Second Sole", "Passw0rd!"),
		mk("u-admin", "admin@soleconnect.test", "Admin", "", domain.RoleAdmin, "", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,first_name,last_name,password_hash,role,store_name,business_type,created_at)
			VALUES(?,?,?,?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.First, x.Last, x.Hash, x.Role, x.Store, x.Biz, now()); err != nil {
			return err
		}
	}

	return tx.Commit()
}
