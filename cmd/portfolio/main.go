package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/kevanoullio/portfolio-manager-sub000/internal/config"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/credential"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/importer"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/logger"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/mail"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/model"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/parse"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/resolve"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/store"
)

const usage = `Usage: portfolio <command> [flags]

Commands:
  import         scan registered mailboxes for new transaction emails
  accounts add   register an import mailbox
  accounts list  list registered mailboxes
  folders        list the folders of a registered mailbox
  assets add     add a reference asset
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return err
	}

	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	switch args[0] {
	case "import":
		return runImport(ctx, cfg, s, args[1:])
	case "accounts":
		return runAccounts(ctx, cfg, s, args[1:])
	case "folders":
		return runFolders(ctx, cfg, s, args[1:])
	case "assets":
		return runAssets(ctx, s, args[1:])
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// runImport scans every registered mailbox for new transaction emails.
func runImport(ctx context.Context, cfg *config.Config, s store.Store, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	folder := fs.String("folder", "INBOX", "folder to scan")
	allFolders := fs.Bool("all-folders", false, "scan every folder of each mailbox")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)
	parser := parse.NewWealthsimple()
	resolver := resolve.New(s, assetPrompt{}, cfg.Brokerage, cfg.UserID)
	im := importer.New(s, parser, resolver, log)

	accounts, err := s.ListEmailAccounts(ctx, cfg.UserID)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		fmt.Println("No import mailboxes registered. Run: portfolio accounts add")
		return nil
	}

	for _, acct := range accounts {
		password, err := credential.Get(acct.Address)
		if err != nil {
			return fmt.Errorf("no stored password for %s: %w", acct.Address, err)
		}

		dial, err := mail.Dial(acct.Address, password)
		if err != nil {
			return err
		}
		sess := mail.NewSession(dial)

		folders := []string{*folder}
		if *allFolders {
			folders, err = sess.ListFolders()
			if err != nil {
				_ = sess.Close()
				return fmt.Errorf("listing folders for %s: %w", acct.Address, err)
			}
		}

		summaries, scanErr := im.ScanAccount(ctx, sess, acct, folders)
		_ = sess.Close()

		for _, sum := range summaries {
			fmt.Printf("%s/%s: %d imported, %d skipped, %d duplicates\n",
				sum.Address, sum.Folder, sum.Processed, sum.Skipped, sum.Duplicates)
		}
		if scanErr != nil {
			return scanErr
		}
	}

	return nil
}

// runAccounts registers or lists import mailboxes.
func runAccounts(ctx context.Context, cfg *config.Config, s store.Store, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: portfolio accounts <add|list>")
	}

	switch args[0] {
	case "add":
		var address, password string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email address").
					Value(&address),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&password),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}

		provider, err := mail.ProviderForAddress(address)
		if err != nil {
			return err
		}

		if err := credential.Set(address, password); err != nil {
			return err
		}

		err = s.UpsertEmailAccount(ctx, model.EmailAccount{
			UserID:   cfg.UserID,
			Address:  address,
			Provider: string(provider),
		})
		if err != nil {
			return err
		}

		fmt.Printf("Registered %s (%s)\n", address, provider)
		return nil

	case "list":
		accounts, err := s.ListEmailAccounts(ctx, cfg.UserID)
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			fmt.Println("No import mailboxes registered.")
			return nil
		}
		for _, a := range accounts {
			fmt.Printf("%s\t%s\n", a.Address, a.Provider)
		}
		return nil

	default:
		return fmt.Errorf("usage: portfolio accounts <add|list>")
	}
}

// runFolders lists the folders of a registered mailbox, verbatim from
// the provider.
func runFolders(ctx context.Context, cfg *config.Config, s store.Store, args []string) error {
	fs := flag.NewFlagSet("folders", flag.ContinueOnError)
	address := fs.String("address", "", "mailbox address (defaults to the only registered one)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *address == "" {
		accounts, err := s.ListEmailAccounts(ctx, cfg.UserID)
		if err != nil {
			return err
		}
		if len(accounts) != 1 {
			return fmt.Errorf("specify -address (found %d registered mailboxes)", len(accounts))
		}
		*address = accounts[0].Address
	}

	password, err := credential.Get(*address)
	if err != nil {
		return fmt.Errorf("no stored password for %s: %w", *address, err)
	}

	dial, err := mail.Dial(*address, password)
	if err != nil {
		return err
	}
	sess := mail.NewSession(dial)
	defer sess.Close()

	folders, err := sess.ListFolders()
	if err != nil {
		return err
	}
	for _, f := range folders {
		fmt.Println(f)
	}
	return nil
}

// runAssets adds reference assets so imported symbols can resolve.
func runAssets(ctx context.Context, s store.Store, args []string) error {
	if len(args) == 0 || args[0] != "add" {
		return fmt.Errorf("usage: portfolio assets add -symbol SYM -currency CODE [-name NAME] [-exchange EX]")
	}

	fs := flag.NewFlagSet("assets add", flag.ContinueOnError)
	symbol := fs.String("symbol", "", "ticker symbol")
	name := fs.String("name", "", "asset name")
	exchange := fs.String("exchange", "", "listing exchange")
	currency := fs.String("currency", "", "listing currency ISO code")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	if *symbol == "" || *currency == "" {
		return fmt.Errorf("-symbol and -currency are required")
	}

	err := s.CreateAsset(ctx, model.Asset{
		Symbol:       *symbol,
		Name:         *name,
		Exchange:     *exchange,
		CurrencyCode: *currency,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added %s (%s)\n", *symbol, *currency)
	return nil
}
