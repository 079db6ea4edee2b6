// Command emailparse runs the extraction pipeline over .eml files or a raw
// body on stdin and prints the resulting transactions as JSON. This utility
// is used to check what the daemon would record for a given notification
// before dropping it into the spool.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/budgetmail/budgetmail/pkg/api"
	"github.com/budgetmail/budgetmail/pkg/extract"
	"github.com/budgetmail/budgetmail/pkg/logging"
	"github.com/budgetmail/budgetmail/pkg/reader/maildir"
)

func main() {
	logger := logging.Setup(logging.FromEnv())

	if len(os.Args) < 2 {
		if err := parseStdin(); err != nil {
			logger.Error("failed to parse stdin", "error", err)
			os.Exit(1)
		}
		return
	}

	failed := 0
	for _, path := range os.Args[1:] {
		email, err := maildir.ParseFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
			continue
		}
		if err := printTransaction(email); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// parseStdin treats stdin as a bare notification body rather than a full
// RFC 5322 message.
func parseStdin() error {
	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	email := &api.RawEmail{
		ID:   "stdin",
		Date: time.Now().UTC(),
		Text: string(body),
	}
	return printTransaction(email)
}

func printTransaction(email *api.RawEmail) error {
	txn := extract.Assemble(email)
	if txn == nil {
		return fmt.Errorf("no transaction found")
	}

	out, err := json.MarshalIndent(txn, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding transaction: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
