package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	dsn     string
)

var rootCmd = &cobra.Command{
	Use:   "reviewdb-import",
	Short: "Bulk-load catalog, user and review data from csv files",
	Long: `Loads the seed csv files into the database, upserting by id so the
command can be re-run safely. Files are loaded in dependency order:

  users.csv, category.csv, genre.csv, titles.csv, genre_title.csv,
  review.csv, comments.csv

Missing files are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dsn == "" {
			dsn = os.Getenv("DB_DSN")
		}
		if dsn == "" {
			return fmt.Errorf("database dsn is required (--dsn or DB_DSN)")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()
		return run(ctx)
	},
}

func init() {
	rootCmd.Flags().StringVar(&dataDir, "dir", "./static/data", "Directory with the csv files")
	rootCmd.Flags().StringVar(&dsn, "dsn", "", "Database connection URL (defaults to DB_DSN)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type loader struct {
	file   string
	insert func(ctx context.Context, tx pgx.Tx, row map[string]string) error
}

var loaders = []loader{
	{
		file: "users.csv",
		insert: func(ctx context.Context, tx pgx.Tx, row map[string]string) error {
			_, err := tx.Exec(ctx,
				`INSERT INTO users (id, username, email, role)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (id) DO UPDATE
				SET username = EXCLUDED.username, email = EXCLUDED.email, role = EXCLUDED.role`,
				row["id"], row["username"], row["email"], row["role"],
			)
			return err
		},
	},
	{
		file: "category.csv",
		insert: func(ctx context.Context, tx pgx.Tx, row map[string]string) error {
			_, err := tx.Exec(ctx,
				`INSERT INTO categories (id, name, slug)
				VALUES ($1, $2, $3)
				ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, slug = EXCLUDED.slug`,
				row["id"], row["name"], row["slug"],
			)
			return err
		},
	},
	{
		file: "genre.csv",
		insert: func(ctx context.Context, tx pgx.Tx, row map[string]string) error {
			_, err := tx.Exec(ctx,
				`INSERT INTO genres (id, name, slug)
				VALUES ($1, $2, $3)
				ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, slug = EXCLUDED.slug`,
				row["id"], row["name"], row["slug"],
			)
			return err
		},
	},
	{
		file: "titles.csv",
		insert: func(ctx context.Context, tx pgx.Tx, row map[string]string) error {
			_, err := tx.Exec(ctx,
				`INSERT INTO titles (id, name, year, category_id)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (id) DO UPDATE
				SET name = EXCLUDED.name, year = EXCLUDED.year, category_id = EXCLUDED.category_id`,
				row["id"], row["name"], row["year"], row["category"],
			)
			return err
		},
	},
	{
		file: "genre_title.csv",
		insert: func(ctx context.Context, tx pgx.Tx, row map[string]string) error {
			_, err := tx.Exec(ctx,
				`INSERT INTO title_genres (title_id, genre_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING`,
				row["title_id"], row["genre_id"],
			)
			return err
		},
	},
	{
		file: "review.csv",
		insert: func(ctx context.Context, tx pgx.Tx, row map[string]string) error {
			_, err := tx.Exec(ctx,
				`INSERT INTO reviews (id, title_id, text, author_id, score, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (id) DO UPDATE
				SET text = EXCLUDED.text, score = EXCLUDED.score`,
				row["id"], row["title_id"], row["text"], row["author"], row["score"], row["pub_date"],
			)
			return err
		},
	},
	{
		file: "comments.csv",
		insert: func(ctx context.Context, tx pgx.Tx, row map[string]string) error {
			_, err := tx.Exec(ctx,
				`INSERT INTO comments (id, review_id, text, author_id, created_at)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO UPDATE SET text = EXCLUDED.text`,
				row["id"], row["review_id"], row["text"], row["author"], row["pub_date"],
			)
			return err
		},
	},
}

// tables whose id sequences must be advanced past the imported ids
var sequenced = []string{"users", "categories", "genres", "titles", "reviews", "comments"}

func run(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for _, l := range loaders {
			path := filepath.Join(dataDir, l.file)
			n, err := loadFile(ctx, tx, path, l)
			if os.IsNotExist(err) {
				fmt.Printf("skipped %s (not found)\n", l.file)
				continue
			}
			if err != nil {
				return fmt.Errorf("loading %s: %w", l.file, err)
			}
			fmt.Printf("loaded %d rows from %s\n", n, l.file)
		}
		for _, table := range sequenced {
			_, err := tx.Exec(ctx, fmt.Sprintf(
				`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), (SELECT COALESCE(MAX(id), 1) FROM %[1]s))`,
				table,
			))
			if err != nil {
				return fmt.Errorf("advancing %s id sequence: %w", table, err)
			}
		}
		return nil
	})
}

func loadFile(ctx context.Context, tx pgx.Tx, path string, l loader) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("reading header: %w", err)
	}
	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("row %d: %w", count+1, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		if err := l.insert(ctx, tx, row); err != nil {
			return count, fmt.Errorf("row %d: %w", count+1, err)
		}
		count++
	}
	return count, nil
}
