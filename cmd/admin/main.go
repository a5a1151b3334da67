package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/tendant/simple-blog/pkg/simpleblog"
	"github.com/tendant/simple-blog/pkg/simpleblog/config"
)

const usage = `Simple Blog Admin CLI

A lightweight admin tool that talks straight to the database.

USAGE:
  admin <command> [options]

COMMANDS:
  register   Register a profile (the first one becomes admin)
  posts      List posts with optional filtering
  stats      Show per-category post and view counts
  reload     Print the blog settings assembled from application fields

ENVIRONMENT VARIABLES:
  DATABASE_URL    PostgreSQL connection string; empty or "memory" for in-memory

  Configuration can be loaded from a .env file in the current directory.

EXAMPLES:
  admin register --identity=alice@idp --name="Alice Author"
  admin posts --profile=alice-author --status=D
  admin posts --json
  admin stats --profile=alice-author
`

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}

	ctx := context.Background()
	svc, cleanup, err := cfg.BuildService(ctx, nil)
	if err != nil {
		log.Fatalf("service: %v", err)
	}
	defer cleanup()

	switch os.Args[1] {
	case "register":
		runRegister(ctx, svc, os.Args[2:])
	case "posts":
		runPosts(ctx, svc, os.Args[2:])
	case "stats":
		runStats(ctx, svc, os.Args[2:])
	case "reload":
		runReload(ctx, svc)
	default:
		fmt.Print(usage)
		os.Exit(1)
	}
}

func runRegister(ctx context.Context, svc simpleblog.Service, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	identity := fs.String("identity", "", "opaque identity of the principal")
	name := fs.String("name", "", "author display name")
	email := fs.String("email", "", "author email")
	fs.Parse(args)

	profile, err := svc.RegisterProfile(ctx, simpleblog.RegisterProfileRequest{
		IdentityName: *identity,
		AuthorName:   *name,
		AuthorEmail:  *email,
	})
	if err != nil {
		log.Fatalf("register: %v", err)
	}
	fmt.Printf("registered profile %d slug=%s admin=%t\n", profile.ID, profile.Slug, profile.IsAdmin)
}

func runPosts(ctx context.Context, svc simpleblog.Service, args []string) {
	fs := flag.NewFlagSet("posts", flag.ExitOnError)
	profile := fs.String("profile", "", "profile slug to scope to")
	status := fs.String("status", "A", "status filter: A, D or P")
	page := fs.Int("page", 1, "1-based page")
	size := fs.Int("size", 100, "page size")
	asJSON := fs.Bool("json", false, "output as JSON")
	fs.Parse(args)

	result, err := svc.ListPosts(ctx, simpleblog.ListPostsRequest{
		Status:      simpleblog.PostStatus(*status),
		ProfileSlug: *profile,
		Pager:       simpleblog.NewPager(*page, *size),
	})
	if err != nil {
		log.Fatalf("list posts: %v", err)
	}

	if *asJSON {
		json.NewEncoder(os.Stdout).Encode(result)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tTITLE\tPUBLISHED\tVIEWS")
	for _, post := range result.Posts {
		published := "draft"
		if post.IsPublished() {
			published = post.Published.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", post.ID, post.Slug, post.Title, published, post.PostViews)
	}
	w.Flush()
	fmt.Printf("page %d/%d, %d total\n", result.Pager.CurrentPage, result.Pager.TotalPages, result.Pager.Total)
}

func runStats(ctx context.Context, svc simpleblog.Service, args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	profile := fs.String("profile", "", "profile slug")
	fs.Parse(args)

	if *profile == "" {
		log.Fatal("stats: --profile is required")
	}
	p, err := svc.GetProfileBySlug(ctx, *profile)
	if err != nil {
		log.Fatalf("stats: %v", err)
	}
	categories, err := svc.ListCategories(ctx, p.ID)
	if err != nil {
		log.Fatalf("stats: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tPOSTS\tVIEWS")
	for _, category := range categories {
		stats, err := svc.CategoryStats(ctx, category.ID)
		if err != nil {
			log.Fatalf("stats: %v", err)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\n", category.Title, stats.PostCount, stats.ViewCount)
	}
	w.Flush()
}

func runReload(ctx context.Context, svc simpleblog.Service) {
	if err := svc.ReloadSettings(ctx); err != nil {
		log.Fatalf("reload: %v", err)
	}
	settings := svc.Settings()
	fmt.Printf("title=%q theme=%q items_per_page=%d version=%d\n",
		settings.Title, settings.Theme, settings.ItemsPerPage, settings.Version)
}
