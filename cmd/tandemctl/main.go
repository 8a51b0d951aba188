package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/mwhitlock/tandem/internal/client"
	"github.com/mwhitlock/tandem/internal/model"
)

type app struct {
	svc        client.Service
	remote     bool
	cfg        *config
	configPath string
}

func main() {
	ctx := context.Background()

	configPath := defaultConfigPath()
	if env := os.Getenv("TANDEMCTL_CONFIG"); env != "" {
		configPath = env
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if env := os.Getenv("TANDEM_SERVER_URL"); env != "" {
		cfg.ServerURL = env
	}

	svc, remote := client.Select(ctx, cfg.ServerURL)
	if remote {
		fmt.Printf("Connected to %s\n", cfg.ServerURL)
	} else {
		fmt.Printf("Server %s unreachable, running with a local in-memory list.\n", cfg.ServerURL)
	}

	a := &app{svc: svc, remote: remote, cfg: cfg, configPath: configPath}
	if err := a.run(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context) error {
	for {
		action, err := a.pickAction()
		if err != nil {
			return err
		}

		var actionErr error
		switch action {
		case "view":
			actionErr = a.viewWeek(ctx)
		case "add":
			actionErr = a.addItem(ctx)
		case "toggle":
			actionErr = a.toggleItem(ctx)
		case "remove":
			actionErr = a.removeItem(ctx)
		case "user":
			actionErr = a.createUser(ctx)
		case "couple":
			actionErr = a.createCouple(ctx)
		case "pin":
			actionErr = a.setPIN(ctx)
		case "switch":
			actionErr = a.switchUser(ctx)
		case "quit":
			return nil
		}

		if actionErr != nil {
			if errors.Is(actionErr, huh.ErrUserAborted) {
				continue
			}
			fmt.Println(errorText(actionErr))
		}
	}
}

func (a *app) pickAction() (string, error) {
	var action string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(fmt.Sprintf("Tandem (user %d, couple %d)", a.cfg.UserID, a.cfg.CoupleID)).
			Options(
				huh.NewOption("View this week's list", "view"),
				huh.NewOption("Add an item", "add"),
				huh.NewOption("Check / uncheck an item", "toggle"),
				huh.NewOption("Remove an item", "remove"),
				huh.NewOption("Create a user", "user"),
				huh.NewOption("Create a couple", "couple"),
				huh.NewOption("Set my PIN", "pin"),
				huh.NewOption("Switch acting user", "switch"),
				huh.NewOption("Quit", "quit"),
			).
			Value(&action),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return action, nil
}

func (a *app) viewWeek(ctx context.Context) error {
	if a.cfg.CoupleID == 0 {
		return errors.New("no couple configured yet, create one first")
	}
	items, err := a.svc.CurrentWeekList(ctx, a.cfg.CoupleID)
	if err != nil {
		return err
	}
	fmt.Println(renderWeekList(items))
	return nil
}

func (a *app) addItem(ctx context.Context) error {
	if a.cfg.UserID == 0 {
		return errors.New("no acting user configured yet, create one first")
	}

	categories, err := a.svc.Categories(ctx)
	if err != nil {
		return err
	}
	options := make([]huh.Option[int64], 0, len(categories)+1)
	options = append(options, huh.NewOption("Pick for me", int64(0)))
	for _, c := range categories {
		options = append(options, huh.NewOption(c.Name, c.ID))
	}

	var (
		name       string
		quantity   string
		categoryID int64
	)
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Item").
			Validate(notBlank).
			Value(&name),
		huh.NewInput().
			Title("Quantity (optional)").
			Placeholder("2, 1kg, a bunch...").
			Value(&quantity),
		huh.NewSelect[int64]().
			Title("Category").
			Options(options...).
			Value(&categoryID),
	))
	if err := form.Run(); err != nil {
		return err
	}

	item, err := a.svc.AddItem(ctx, nil, categoryID, strings.TrimSpace(name), strings.TrimSpace(quantity), a.cfg.UserID)
	if err != nil {
		return err
	}

	categoryName := "Other"
	for _, c := range categories {
		if c.ID == item.CategoryID {
			categoryName = c.Name
		}
	}
	fmt.Printf("Added %s to this week's list under %s.\n", item.Name, categoryName)
	return nil
}

func (a *app) toggleItem(ctx context.Context) error {
	item, err := a.pickItem(ctx, "Which item?")
	if err != nil || item == nil {
		return err
	}

	toggled, err := a.svc.ToggleItem(ctx, item.ID, a.cfg.UserID)
	if err != nil {
		// The other partner may have removed it meanwhile; show the
		// fresh list instead of a stale failure.
		if isGone(err) {
			fmt.Println("That item is gone, here is the current list:")
			return a.viewWeek(ctx)
		}
		return err
	}
	if toggled.IsCompleted {
		fmt.Printf("Checked off %s.\n", toggled.Name)
	} else {
		fmt.Printf("Unchecked %s.\n", toggled.Name)
	}
	return nil
}

func (a *app) removeItem(ctx context.Context) error {
	item, err := a.pickItem(ctx, "Remove which item?")
	if err != nil || item == nil {
		return err
	}

	removed, err := a.svc.RemoveItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Println("That item was already removed, here is the current list:")
		return a.viewWeek(ctx)
	}
	fmt.Printf("Removed %s.\n", item.Name)
	return nil
}

// pickItem prompts with the current week's items. A nil item with nil error
// means the list is empty.
func (a *app) pickItem(ctx context.Context, title string) (*model.GroceryItemWithCategory, error) {
	if a.cfg.CoupleID == 0 {
		return nil, errors.New("no couple configured yet, create one first")
	}
	items, err := a.svc.CurrentWeekList(ctx, a.cfg.CoupleID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		fmt.Println("The list is empty this week.")
		return nil, nil
	}

	options := make([]huh.Option[int64], 0, len(items))
	byID := make(map[int64]model.GroceryItemWithCategory, len(items))
	for _, item := range items {
		options = append(options, huh.NewOption(itemLabel(item), item.ID))
		byID[item.ID] = item
	}

	var itemID int64
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int64]().Title(title).Options(options...).Value(&itemID),
	))
	if err := form.Run(); err != nil {
		return nil, err
	}
	picked := byID[itemID]
	return &picked, nil
}

func (a *app) createUser(ctx context.Context) error {
	var name, email string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Name").Validate(notBlank).Value(&name),
		huh.NewInput().Title("Email").Validate(validEmail).Value(&email),
	))
	if err := form.Run(); err != nil {
		return err
	}

	user, err := a.svc.CreateUser(ctx, strings.TrimSpace(name), strings.TrimSpace(email))
	if err != nil {
		return err
	}
	fmt.Printf("Created user %s (id %d).\n", user.Name, user.ID)

	if a.cfg.UserID == 0 {
		a.cfg.UserID = user.ID
		return a.save()
	}
	return nil
}

func (a *app) createCouple(ctx context.Context) error {
	var user1, user2 string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("First user id").Validate(validID).Value(&user1),
		huh.NewInput().Title("Second user id").Validate(validID).Value(&user2),
	))
	if err := form.Run(); err != nil {
		return err
	}

	id1, _ := strconv.ParseInt(strings.TrimSpace(user1), 10, 64)
	id2, _ := strconv.ParseInt(strings.TrimSpace(user2), 10, 64)
	couple, err := a.svc.CreateCouple(ctx, id1, id2)
	if err != nil {
		return err
	}
	fmt.Printf("Created couple %d.\n", couple.ID)

	a.cfg.CoupleID = couple.ID
	return a.save()
}

func (a *app) setPIN(ctx context.Context) error {
	if a.cfg.UserID == 0 {
		return errors.New("no acting user configured yet, create one first")
	}

	var pin string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("New PIN (4-8 digits)").
			EchoMode(huh.EchoModePassword).
			Validate(validPIN).
			Value(&pin),
	))
	if err := form.Run(); err != nil {
		return err
	}

	if err := a.svc.SetUserPIN(ctx, a.cfg.UserID, pin); err != nil {
		return err
	}
	fmt.Println("PIN updated.")
	return nil
}

func (a *app) switchUser(ctx context.Context) error {
	var userStr string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("User id").Validate(validID).Value(&userStr),
	))
	if err := form.Run(); err != nil {
		return err
	}
	userID, _ := strconv.ParseInt(strings.TrimSpace(userStr), 10, 64)

	user, err := a.svc.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	// A protected user always gets the PIN prompt; blank never passes.
	if user.HasPIN {
		var pin string
		pinForm := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("PIN").
				EchoMode(huh.EchoModePassword).
				Validate(notBlank).
				Value(&pin),
		))
		if err := pinForm.Run(); err != nil {
			return err
		}
		ok, err := a.svc.VerifyUserPIN(ctx, userID, pin)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("wrong PIN")
		}
	}

	a.cfg.UserID = userID
	if err := a.save(); err != nil {
		return err
	}
	fmt.Printf("Now acting as %s (user %d).\n", user.Name, userID)
	return nil
}

func (a *app) save() error {
	return saveConfig(a.configPath, a.cfg)
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

func validEmail(s string) error {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "@") || len(s) < 3 {
		return errors.New("enter a valid email address")
	}
	return nil
}

func validID(s string) error {
	if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
		return errors.New("enter a numeric id")
	}
	return nil
}

func validPIN(s string) error {
	if len(s) < 4 || len(s) > 8 {
		return errors.New("PIN must be 4 to 8 digits")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return errors.New("PIN must be digits only")
		}
	}
	return nil
}

// isGone reports whether err means the target no longer exists server-side.
func isGone(err error) bool {
	var rerr *client.RemoteError
	return errors.As(err, &rerr) && rerr.Status == 404
}

func errorText(err error) string {
	var rerr *client.RemoteError
	if errors.As(err, &rerr) {
		return "Server said: " + rerr.Message
	}
	return "Error: " + err.Error()
}
