package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/spec-kit/team-service/internal/client"
	"github.com/spec-kit/team-service/internal/config"
	"github.com/spec-kit/team-service/internal/ui"
)

var buildVersion = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "list":
		err = commandList(args)
	case "show":
		err = commandShow(args)
	case "create-team":
		err = commandCreateTeam(args)
	case "update-team":
		err = commandUpdateTeam(args)
	case "delete-team":
		err = commandDeleteTeam(args)
	case "add-member":
		err = commandAddMember(args)
	case "edit-member":
		err = commandEditMember(args)
	case "remove-member":
		err = commandRemoveMember(args)
	case "version", "--version", "-v":
		fmt.Printf("teamctl %s\n", buildVersion)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// session is one controller bound to the configured API for a single command.
type session struct {
	ctl     *ui.Controller
	timeout time.Duration
}

type commonFlags struct {
	api *string
	yes *bool
}

func registerCommon(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		api: fs.String("api", "", "API base URL (default $TEAMCTL_API_URL or http://127.0.0.1:8080)"),
		yes: fs.Bool("yes", false, "Skip confirmation prompts"),
	}
}

func openSession(flags commonFlags) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	base := cfg.Client.APIBaseURL
	if strings.TrimSpace(*flags.api) != "" {
		base = *flags.api
	}
	api, err := client.New(base, client.WithTimeout(cfg.Client.Timeout()))
	if err != nil {
		return nil, err
	}

	var confirmer ui.Confirmer
	switch {
	case *flags.yes:
		confirmer = ui.AlwaysConfirm{}
	case term.IsTerminal(int(os.Stdin.Fd())):
		confirmer = ui.NewPromptConfirmer(os.Stdin, os.Stdout)
	}

	timeout := cfg.Client.Timeout()
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &session{
		ctl:     ui.NewController(api, nil, confirmer, ui.WithNoticeDuration(cfg.Client.NoticeDuration())),
		timeout: timeout,
	}, nil
}

// run loads the team list, selects teamID when non-zero, runs action and prints the final view.
func (s *session) run(teamID int64, action func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.ctl.Load(ctx)
	if err == nil && teamID != 0 {
		err = s.ctl.SelectTeam(ctx, teamID)
	}
	if err == nil && action != nil {
		err = action(ctx)
	}
	if werr := ui.WriteView(os.Stdout, s.ctl.View()); werr != nil && err == nil {
		err = werr
	}
	return err
}

func commandList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	common := registerCommon(fs)
	fs.Parse(args)

	s, err := openSession(common)
	if err != nil {
		return err
	}
	return s.run(0, nil)
}

func commandShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	common := registerCommon(fs)
	team := fs.Int64("team", 0, "Team ID")
	fs.Parse(args)

	if *team <= 0 {
		return errors.New("--team is required")
	}
	s, err := openSession(common)
	if err != nil {
		return err
	}
	return s.run(*team, nil)
}

func commandCreateTeam(args []string) error {
	fs := flag.NewFlagSet("create-team", flag.ExitOnError)
	common := registerCommon(fs)
	name := fs.String("name", "", "Team name")
	description := fs.String("description", "", "Team description")
	fs.Parse(args)

	s, err := openSession(common)
	if err != nil {
		return err
	}
	form := &ui.TeamForm{Name: *name, Description: *description}
	return s.run(0, func(ctx context.Context) error {
		return s.ctl.CreateTeam(ctx, form)
	})
}

func commandUpdateTeam(args []string) error {
	fs := flag.NewFlagSet("update-team", flag.ExitOnError)
	common := registerCommon(fs)
	team := fs.Int64("team", 0, "Team ID")
	name := fs.String("name", "", "New team name")
	description := fs.String("description", "", "New team description")
	fs.Parse(args)

	if *team <= 0 {
		return errors.New("--team is required")
	}
	s, err := openSession(common)
	if err != nil {
		return err
	}
	return s.run(*team, func(ctx context.Context) error {
		form := s.ctl.View().Detail.Form
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				form.Name = *name
			case "description":
				form.Description = *description
			}
		})
		return s.ctl.SaveTeam(ctx, &form)
	})
}

func commandDeleteTeam(args []string) error {
	fs := flag.NewFlagSet("delete-team", flag.ExitOnError)
	common := registerCommon(fs)
	team := fs.Int64("team", 0, "Team ID")
	fs.Parse(args)

	if *team <= 0 {
		return errors.New("--team is required")
	}
	s, err := openSession(common)
	if err != nil {
		return err
	}
	return s.run(*team, s.ctl.DeleteTeam)
}

func commandAddMember(args []string) error {
	fs := flag.NewFlagSet("add-member", flag.ExitOnError)
	common := registerCommon(fs)
	team := fs.Int64("team", 0, "Team ID")
	name := fs.String("name", "", "Member name")
	email := fs.String("email", "", "Member email")
	role := fs.String("role", "", "Member role")
	fs.Parse(args)

	if *team <= 0 {
		return errors.New("--team is required")
	}
	s, err := openSession(common)
	if err != nil {
		return err
	}
	form := &ui.MemberForm{Name: *name, Email: *email, Role: *role}
	return s.run(*team, func(ctx context.Context) error {
		return s.ctl.AddMember(ctx, form)
	})
}

func commandEditMember(args []string) error {
	fs := flag.NewFlagSet("edit-member", flag.ExitOnError)
	common := registerCommon(fs)
	team := fs.Int64("team", 0, "Team ID the member belongs to")
	member := fs.Int64("member", 0, "Member ID")
	name := fs.String("name", "", "New member name")
	email := fs.String("email", "", "New member email")
	role := fs.String("role", "", "New member role")
	fs.Parse(args)

	if *team <= 0 || *member <= 0 {
		return errors.New("--team and --member are required")
	}
	s, err := openSession(common)
	if err != nil {
		return err
	}
	return s.run(*team, func(ctx context.Context) error {
		form, err := memberForm(s.ctl.State(), *member)
		if err != nil {
			return err
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				form.Name = *name
			case "email":
				form.Email = *email
			case "role":
				form.Role = *role
			}
		})
		return s.ctl.EditMember(ctx, *member, &form)
	})
}

func commandRemoveMember(args []string) error {
	fs := flag.NewFlagSet("remove-member", flag.ExitOnError)
	common := registerCommon(fs)
	team := fs.Int64("team", 0, "Team ID the member belongs to")
	member := fs.Int64("member", 0, "Member ID")
	fs.Parse(args)

	if *team <= 0 || *member <= 0 {
		return errors.New("--team and --member are required")
	}
	s, err := openSession(common)
	if err != nil {
		return err
	}
	return s.run(*team, func(ctx context.Context) error {
		return s.ctl.RemoveMember(ctx, *member)
	})
}

func memberForm(state ui.State, memberID int64) (ui.MemberForm, error) {
	if state.Detail != nil {
		for _, m := range state.Detail.Members {
			if m.ID == memberID {
				return ui.MemberFormFrom(m), nil
			}
		}
	}
	return ui.MemberForm{}, fmt.Errorf("member %d is not in the selected team", memberID)
}

func printUsage() {
	fmt.Printf("teamctl %s\n\n", buildVersion)
	fmt.Println("Usage:")
	fmt.Println("  teamctl list")
	fmt.Println("  teamctl show --team ID")
	fmt.Println("  teamctl create-team --name NAME [--description TEXT]")
	fmt.Println("  teamctl update-team --team ID [--name NAME] [--description TEXT]")
	fmt.Println("  teamctl delete-team --team ID [--yes]")
	fmt.Println("  teamctl add-member --team ID --name NAME --email EMAIL [--role ROLE]")
	fmt.Println("  teamctl edit-member --team ID --member ID [--name NAME] [--email EMAIL] [--role ROLE]")
	fmt.Println("  teamctl remove-member --team ID --member ID [--yes]")
	fmt.Println("\nEvery command accepts --api URL.")
}
