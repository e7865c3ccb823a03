package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/docforge/docforge/internal/adapter/postgres"
	"github.com/docforge/docforge/internal/config"
	"github.com/docforge/docforge/internal/domain/tenant"
	"github.com/docforge/docforge/internal/service"
)

// runAdmin dispatches admin subcommands for tenant and API key management.
func runAdmin(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printAdminHelp()
		return nil
	}

	switch args[0] {
	case "create-tenant":
		return runAdminCreateTenant(args[1:])
	case "list-tenants":
		return runAdminListTenants(args[1:])
	case "set-tenant":
		return runAdminSetTenant(args[1:])
	case "create-key":
		return runAdminCreateKey(args[1:])
	case "import-key":
		return runAdminImportKey(args[1:])
	case "list-keys":
		return runAdminListKeys(args[1:])
	case "revoke-key":
		return runAdminRevokeKey(args[1:])
	default:
		printAdminHelp()
		return fmt.Errorf("unknown admin command: %s", args[0])
	}
}

func printAdminHelp() {
	fmt.Fprintf(os.Stderr, `Usage: docforge admin <command> [options]

Commands:
  create-tenant   Create a new tenant
  list-tenants    List all tenants
  set-tenant      Enable or disable a tenant
  create-key      Generate an API key for a tenant (printed once)
  import-key      Register an externally provisioned key secret (prompted)
  list-keys       List a tenant's API keys
  revoke-key      Delete an API key
  help            Show this help message

Examples:
  docforge admin create-tenant --id acme --name "Acme Corp"
  docforge admin create-key --tenant acme --name ci --scopes documents:write,templates:read
  docforge admin set-tenant --id acme --enabled=false
`)
}

type adminDeps struct {
	store *postgres.Store
	auth  *service.AuthService
}

func loadAdminDeps() (*adminDeps, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	store := postgres.NewStore(pool)
	deps := &adminDeps{
		store: store,
		auth:  service.NewAuthService(store, &cfg.Auth),
	}
	return deps, pool.Close, nil
}

func runAdminCreateTenant(args []string) error {
	fs := flag.NewFlagSet("create-tenant", flag.ContinueOnError)
	id := fs.String("id", "", "tenant identifier (required, lowercase alnum/-/_)")
	name := fs.String("name", "", "tenant display name (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" || *name == "" {
		return fmt.Errorf("--id and --name are required")
	}

	deps, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	t, err := deps.store.CreateTenant(context.Background(), tenant.CreateRequest{ID: *id, Name: *name})
	if err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Tenant created: %s (%s)\n", t.ID, t.Name)
	return nil
}

func runAdminListTenants(args []string) error {
	fs := flag.NewFlagSet("list-tenants", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	deps, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	tenants, err := deps.store.ListTenants(context.Background())
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}
	if len(tenants) == 0 {
		fmt.Println("No tenants found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tENABLED\tCREATED")
	for i := range tenants {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%t\t%s\n",
			tenants[i].ID, tenants[i].Name, tenants[i].Enabled, tenants[i].CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func runAdminSetTenant(args []string) error {
	fs := flag.NewFlagSet("set-tenant", flag.ContinueOnError)
	id := fs.String("id", "", "tenant identifier (required)")
	enabled := fs.Bool("enabled", true, "whether the tenant may authenticate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("--id is required")
	}

	deps, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	t, err := deps.store.GetTenant(ctx, *id)
	if err != nil {
		return fmt.Errorf("get tenant: %w", err)
	}
	t.Enabled = *enabled
	if err := deps.store.UpdateTenant(ctx, t); err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Tenant %s enabled=%t\n", t.ID, t.Enabled)
	return nil
}

func runAdminCreateKey(args []string) error {
	fs := flag.NewFlagSet("create-key", flag.ContinueOnError)
	tenantID := fs.String("tenant", "", "tenant identifier (required)")
	name := fs.String("name", "", "key display name (required)")
	scopes := fs.String("scopes", "", "comma-separated scopes (empty = unrestricted)")
	expiresIn := fs.Int("expires-in", 0, "lifetime in seconds (0 = no expiry)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tenantID == "" || *name == "" {
		return fmt.Errorf("--tenant and --name are required")
	}

	deps, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := deps.auth.CreateAPIKey(context.Background(), *tenantID, tenant.CreateAPIKeyRequest{
		Name:      *name,
		Scopes:    splitScopes(*scopes),
		ExpiresIn: *expiresIn,
	})
	if err != nil {
		return fmt.Errorf("create key: %w", err)
	}

	// The plaintext is shown exactly once; only the hash is stored.
	fmt.Fprintf(os.Stderr, "Key created: %s (id=%s)\n", resp.APIKey.Name, resp.APIKey.ID)
	fmt.Println(resp.PlainKey)
	return nil
}

func runAdminImportKey(args []string) error {
	fs := flag.NewFlagSet("import-key", flag.ContinueOnError)
	tenantID := fs.String("tenant", "", "tenant identifier (required)")
	name := fs.String("name", "", "key display name (required)")
	scopes := fs.String("scopes", "", "comma-separated scopes (empty = unrestricted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tenantID == "" || *name == "" {
		return fmt.Errorf("--tenant and --name are required")
	}

	secret, err := promptSecret("Key secret: ")
	if err != nil {
		return fmt.Errorf("read secret: %w", err)
	}
	confirm, err := promptSecret("Confirm secret: ")
	if err != nil {
		return fmt.Errorf("read secret: %w", err)
	}
	if secret != confirm {
		return fmt.Errorf("secrets do not match")
	}

	deps, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	key, err := deps.auth.ImportAPIKey(context.Background(), *tenantID, *name, secret, splitScopes(*scopes))
	if err != nil {
		return fmt.Errorf("import key: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Key imported: %s (id=%s, prefix=%s)\n", key.Name, key.ID, key.Prefix)
	return nil
}

func runAdminListKeys(args []string) error {
	fs := flag.NewFlagSet("list-keys", flag.ContinueOnError)
	tenantID := fs.String("tenant", "", "tenant identifier (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tenantID == "" {
		return fmt.Errorf("--tenant is required")
	}

	deps, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	keys, err := deps.auth.ListAPIKeys(context.Background(), *tenantID)
	if err != nil {
		return fmt.Errorf("list keys: %w", err)
	}
	if len(keys) == 0 {
		fmt.Println("No keys found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tPREFIX\tSCOPES\tEXPIRES")
	for i := range keys {
		expires := "never"
		if !keys[i].ExpiresAt.IsZero() {
			expires = keys[i].ExpiresAt.Format("2006-01-02 15:04")
		}
		scopes := strings.Join(keys[i].Scopes, ",")
		if scopes == "" {
			scopes = "(all)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			keys[i].ID, keys[i].Name, keys[i].Prefix, scopes, expires)
	}
	return w.Flush()
}

func runAdminRevokeKey(args []string) error {
	fs := flag.NewFlagSet("revoke-key", flag.ContinueOnError)
	tenantID := fs.String("tenant", "", "tenant identifier (required)")
	id := fs.String("id", "", "key id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tenantID == "" || *id == "" {
		return fmt.Errorf("--tenant and --id are required")
	}

	deps, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := deps.auth.DeleteAPIKey(context.Background(), *tenantID, *id); err != nil {
		return fmt.Errorf("revoke key: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Key revoked: %s\n", *id)
	return nil
}

func splitScopes(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// promptSecret reads a secret from the terminal without echoing.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
