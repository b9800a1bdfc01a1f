package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/merrysway/storefront/internal/application/cart"
	"github.com/merrysway/storefront/internal/application/storefront"
	"github.com/merrysway/storefront/internal/domain/catalog"
	"github.com/merrysway/storefront/internal/domain/chat"
	"github.com/merrysway/storefront/internal/domain/order"
)

const orderFailureMessage = "Sorry, we couldn't update your order. Please try again."

// Frontend is the customer session the shell drives
type Frontend interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) error
	Logout()
	LoggedIn() bool
	Menu(ctx context.Context, filter catalog.Filter) ([]catalog.Product, error)
	Ask(ctx context.Context, utterance string) (string, error)
	ChatHistory(ctx context.Context) ([]chat.Message, error)
	OrderHistory(ctx context.Context) ([]order.ActiveOrder, error)
	Cart() cart.Cart
	AddToCart(product catalog.Product) error
	SetQuantity(name string, quantity int)
	RemoveFromCart(name string)
	ClearCart(ctx context.Context) error
	RefreshCart(ctx context.Context) error
}

var _ Frontend = (*storefront.Storefront)(nil)

var errQuit = errors.New("quit")

// Shell is a line oriented text front end over a Frontend
type Shell struct {
	front  Frontend
	out    io.Writer
	logger *zap.Logger
}

// NewShell creates a shell writing to out
func NewShell(front Frontend, out io.Writer, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{front: front, out: out, logger: logger}
}

// Run reads commands from in until EOF, quit or ctx is done
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	s.println("Welcome to Merry's Way. Type 'help' for commands.")
	s.prompt()
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.Exec(ctx, scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
		s.prompt()
	}
	return scanner.Err()
}

// Exec runs a single command line. Command failures are reported to the
// customer and do not end the shell.
func (s *Shell) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.Join(args, " ")

	switch name {
	case "help", "?":
		s.help()
	case "quit", "exit":
		return errQuit
	case "register":
		if len(args) != 3 {
			s.println("usage: register <username> <email> <password>")
			return nil
		}
		if err := s.front.Register(ctx, args[0], args[1], args[2]); err != nil {
			s.fail("Registration failed.", err)
			return nil
		}
		s.println("Account created. You can log in now.")
	case "login":
		if len(args) != 2 {
			s.println("usage: login <email> <password>")
			return nil
		}
		if err := s.front.Login(ctx, args[0], args[1]); err != nil {
			s.fail("Login failed.", err)
			return nil
		}
		s.println("Logged in.")
		s.showCart()
	case "logout":
		s.front.Logout()
		s.println("Logged out.")
	case "menu":
		s.menu(ctx, catalog.Filter{Category: rest})
	case "search":
		s.menu(ctx, catalog.Filter{Search: rest})
	case "add":
		s.add(ctx, rest)
	case "qty":
		s.setQuantity(args)
	case "remove", "rm":
		if rest == "" {
			s.println("usage: remove <product>")
			return nil
		}
		s.front.RemoveFromCart(rest)
		s.showCart()
	case "cart":
		s.showCart()
	case "clear":
		if err := s.front.ClearCart(ctx); err != nil {
			s.fail(orderFailureMessage, err)
			return nil
		}
		s.println("Your cart is empty.")
	case "refresh":
		if err := s.front.RefreshCart(ctx); err != nil {
			s.fail(orderFailureMessage, err)
			return nil
		}
		s.showCart()
	case "ask", "chat":
		if rest == "" {
			s.println("usage: ask <message>")
			return nil
		}
		s.ask(ctx, rest)
	case "history":
		s.chatHistory(ctx)
	case "orders":
		s.orders(ctx)
	default:
		s.printf("Unknown command %q. Type 'help' for commands.\n", name)
	}
	return nil
}

func (s *Shell) menu(ctx context.Context, filter catalog.Filter) {
	products, err := s.front.Menu(ctx, filter)
	if err != nil {
		s.fail("Couldn't load the menu.", err)
		return
	}
	if len(products) == 0 {
		s.println("Nothing on the menu matches.")
		return
	}
	for _, p := range products {
		s.printf("  %-28s %-12s $%s\n", p.Name, p.Category, p.Price.StringFixed(2))
	}
}

func (s *Shell) add(ctx context.Context, name string) {
	if name == "" {
		s.println("usage: add <product>")
		return
	}
	products, err := s.front.Menu(ctx, catalog.Filter{Search: name})
	if err != nil {
		s.fail("Couldn't load the menu.", err)
		return
	}
	product, ok := pickProduct(products, name)
	if !ok {
		s.printf("No product named %q.\n", name)
		return
	}
	if err := s.front.AddToCart(product); err != nil {
		s.fail("Couldn't add to cart.", err)
		return
	}
	s.showCart()
}

// pickProduct prefers an exact (case-insensitive) name match and falls
// back to a single search hit
func pickProduct(products []catalog.Product, name string) (catalog.Product, bool) {
	for _, p := range products {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	if len(products) == 1 {
		return products[0], true
	}
	return catalog.Product{}, false
}

func (s *Shell) setQuantity(args []string) {
	if len(args) < 2 {
		s.println("usage: qty <n> <product>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		s.println("usage: qty <n> <product>")
		return
	}
	s.front.SetQuantity(strings.Join(args[1:], " "), n)
	s.showCart()
}

func (s *Shell) ask(ctx context.Context, utterance string) {
	reply, err := s.front.Ask(ctx, utterance)
	if err != nil {
		s.fail("The assistant is unavailable right now.", err)
		return
	}
	s.printf("assistant: %s\n", reply)
	s.showCart()
}

func (s *Shell) chatHistory(ctx context.Context) {
	messages, err := s.front.ChatHistory(ctx)
	if err != nil {
		s.fail("Couldn't load the conversation.", err)
		return
	}
	if len(messages) == 0 {
		s.println("No messages yet.")
		return
	}
	for _, m := range messages {
		s.printf("%s: %s\n", m.Role, m.Content)
	}
}

func (s *Shell) orders(ctx context.Context) {
	orders, err := s.front.OrderHistory(ctx)
	if err != nil {
		s.fail("Couldn't load your orders.", err)
		return
	}
	if len(orders) == 0 {
		s.println("No past orders.")
		return
	}
	for _, o := range orders {
		s.printf("  %s  %d items  $%s\n", o.UpdatedAt.Format("2006-01-02 15:04"), len(o.Items), o.Total.StringFixed(2))
	}
}

func (s *Shell) showCart() {
	c := s.front.Cart()
	if c.IsEmpty() {
		s.println("Your cart is empty.")
		return
	}
	for _, l := range c.Lines {
		s.printf("  %2d x %-28s $%s\n", l.Quantity, l.ProductName, l.Total().StringFixed(2))
	}
	status := ""
	if c.Pending {
		status = " (saving)"
	}
	s.printf("  %d items, subtotal $%s%s\n", c.ItemCount(), c.Subtotal().StringFixed(2), status)
}

func (s *Shell) help() {
	s.println(`Commands:
  register <username> <email> <password>
  login <email> <password>     logout
  menu [category]              search <text>
  add <product>                qty <n> <product>
  remove <product>             clear
  cart                         refresh
  ask <message>                history
  orders                       quit`)
}

// fail reports err to the customer. Not being logged in gets its own hint.
func (s *Shell) fail(message string, err error) {
	s.logger.Debug(message, zap.Error(err))
	if errors.Is(err, storefront.ErrNotLoggedIn) {
		s.println("Please log in first.")
		return
	}
	s.println(message)
}

func (s *Shell) prompt() {
	if s.front.LoggedIn() {
		fmt.Fprint(s.out, "merrysway> ")
		return
	}
	fmt.Fprint(s.out, "> ")
}

func (s *Shell) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
