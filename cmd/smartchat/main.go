package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/asafzaf/smartchat/internal/api"
	"github.com/asafzaf/smartchat/internal/app"
	"github.com/asafzaf/smartchat/internal/config"
	"github.com/asafzaf/smartchat/internal/types"
)

const usageText = `smartchat is a terminal client for the SmartChat server.

Usage:
  smartchat <command> [flags]

Commands:
  ui        run the chat UI (default)
  login     sign in and store credentials
  signup    create an account and sign in
  logout    forget stored credentials
  chats     list your chats
  delete    delete a chat
  feedback  send feedback on a chat
  prefs     update profile preferences
  help      show help

Flags:
  -h, --help   show help

Examples:
  smartchat login --email you@example.com
  smartchat chats
  smartchat delete <chat-id>
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	_ = godotenv.Load()

	args := os.Args[1:]
	if len(args) == 0 {
		exitOnErr("ui", runUI(nil))
		return
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	case "ui":
		exitOnErr("ui", runUI(args[1:]))
	case "login":
		exitOnErr("login", runLogin(args[1:]))
	case "signup":
		exitOnErr("signup", runSignup(args[1:]))
	case "logout":
		exitOnErr("logout", runLogout(args[1:]))
	case "chats":
		exitOnErr("chats", runChats(args[1:]))
	case "delete":
		exitOnErr("delete", runDelete(args[1:]))
	case "feedback":
		exitOnErr("feedback", runFeedback(args[1:]))
	case "prefs":
		exitOnErr("prefs", runPrefs(args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func exitOnErr(label string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}

func runLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("email is required")
	}
	pass, err := resolvePassword(*password)
	if err != nil {
		return err
	}

	settings, err := config.Load()
	if err != nil {
		return err
	}
	client := api.New(settings.ServerURL(), newLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	auth, err := client.SignIn(ctx, *email, pass)
	if err != nil {
		return err
	}
	if err := storeCredentials(auth); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "signed in as %s\n", auth.User.Email)
	return nil
}

func runSignup(args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" {
		return errors.New("name and email are required")
	}
	pass, err := resolvePassword(*password)
	if err != nil {
		return err
	}

	settings, err := config.Load()
	if err != nil {
		return err
	}
	client := api.New(settings.ServerURL(), newLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	auth, err := client.SignUp(ctx, *name, *email, pass)
	if err != nil {
		return err
	}
	if err := storeCredentials(auth); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "account created for %s\n", auth.User.Email)
	return nil
}

func runLogout(args []string) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := config.CredentialsPath()
	if err != nil {
		return err
	}
	if err := api.ClearCredentials(path); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "signed out")
	return nil
}

func runChats(args []string) error {
	fs := flag.NewFlagSet("chats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, creds, err := signedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	chats, err := client.ChatList(ctx, creds.User.ID)
	if err != nil {
		return err
	}
	printChats(chats)
	return nil
}

func runDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("delete requires a chat id")
	}
	id := fs.Arg(0)

	client, _, err := signedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.DeleteChat(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "ok")
	return nil
}

func runFeedback(args []string) error {
	fs := flag.NewFlagSet("feedback", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	chatID := fs.String("chat", "", "chat id the feedback is about")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if *chatID == "" || text == "" {
		return errors.New("feedback requires --chat and a message")
	}

	client, creds, err := signedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.SendFeedback(ctx, creds.User.ID, *chatID, text); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "thanks for the feedback")
	return nil
}

func runPrefs(args []string) error {
	fs := flag.NewFlagSet("prefs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	displayName := fs.String("name", "", "display name")
	language := fs.String("language", "", "preferred language")
	dark := fs.String("dark", "", "dark mode: true or false")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prefs := types.Preferences{
		DisplayName: *displayName,
		Language:    *language,
	}
	darkMode, err := parseDarkMode(*dark)
	if err != nil {
		return err
	}
	prefs.DarkMode = darkMode
	if prefs.DisplayName == "" && prefs.Language == "" && prefs.DarkMode == nil {
		return errors.New("nothing to update")
	}

	client, _, err := signedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	user, err := client.UpdatePreferences(ctx, prefs)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "preferences updated for %s\n", user.Email)
	return nil
}

func runUI(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := config.Load()
	if err != nil {
		return err
	}
	creds, err := loadCredentials()
	if err != nil {
		return err
	}

	logger, closeLog, err := uiLogger(settings)
	if err != nil {
		return err
	}
	defer closeLog()

	client := api.New(settings.ServerURL(), logger)
	client.SetToken(creds.Token)
	return app.Run(client, settings, creds.User, logger)
}

func signedInClient() (*api.Client, *api.Credentials, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	creds, err := loadCredentials()
	if err != nil {
		return nil, nil, err
	}
	client := api.New(settings.ServerURL(), newLogger())
	client.SetToken(creds.Token)
	return client, creds, nil
}

func loadCredentials() (*api.Credentials, error) {
	path, err := config.CredentialsPath()
	if err != nil {
		return nil, err
	}
	creds, err := api.LoadCredentials(path)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, errors.New("not signed in; run: smartchat login")
	}
	return creds, nil
}

func storeCredentials(auth *api.AuthData) error {
	path, err := config.CredentialsPath()
	if err != nil {
		return err
	}
	return api.SaveCredentials(path, api.Credentials{Token: auth.Token, User: auth.User})
}

func parseDarkMode(value string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return nil, nil
	case "true", "1", "yes", "on":
		v := true
		return &v, nil
	case "false", "0", "no", "off":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("invalid --dark value: %q", value)
	}
}

func resolvePassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(os.Stderr, "password: ")
	var pass string
	if _, err := fmt.Fscanln(os.Stdin, &pass); err != nil {
		return "", errors.New("password is required")
	}
	if strings.TrimSpace(pass) == "" {
		return "", errors.New("password is required")
	}
	return pass, nil
}

// newLogger writes to stderr for one-shot commands. The UI gets a file
// logger instead so log lines don't tear the alternate screen.
func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
}

func uiLogger(settings config.Settings) (*log.Logger, func(), error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, nil, err
	}
	logPath, err := config.UILogPath()
	if err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	level, err := log.ParseLevel(settings.LogLevel())
	if err != nil {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(file, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	return logger, func() { _ = file.Close() }, nil
}

func printChats(chats []types.Chat) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tUNREAD\tTITLE")
	for _, chat := range chats {
		unread := "-"
		if chat.HasNewMessages {
			unread = "●"
		}
		title := strings.TrimSpace(chat.Title)
		if title == "" {
			title = strings.TrimSpace(chat.UserPrompt)
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\n", chat.ID, unread, title)
	}
	_ = writer.Flush()
}
