package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/akvaproffi/storefront/internal/catalog"
	"github.com/akvaproffi/storefront/internal/checkout"
	"github.com/akvaproffi/storefront/internal/collection"
	"github.com/akvaproffi/storefront/internal/imagecache"
	"github.com/akvaproffi/storefront/internal/remote"
	"github.com/akvaproffi/storefront/internal/synchronizer"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var errQuit = errors.New("quit")

const helpText = `commands:
  products [query]          list the catalog
  cart | favorites          show a collection
  add <product> [qty]       add to cart
  set <product> <qty>       overwrite a cart quantity (0 removes)
  remove <product>          remove from cart
  clear                     empty the cart
  fav <product>             add to favorites
  unfav <product>           remove from favorites
  login <email> <password>  sign in and merge the guest collections
  logout                    sign out
  reconcile                 re-read both collections from the server
  checkout                  place an order for the account cart
  profile                   show the signed-in profile
  quit`

// shell is the terminal stand-in for the storefront UI.
type shell struct {
	catalog   *catalog.Catalog
	client    *remote.Client
	session   *remote.Session
	cart      *synchronizer.Synchronizer[collection.LineItem]
	favorites *synchronizer.Synchronizer[collection.FavoriteRef]
	checkout  *checkout.Client
	avatars   *imagecache.Cache
	out       io.Writer

	closeStore func() error
}

// close lets background reconciles finish before the guest store goes away.
func (s *shell) close() {
	s.cart.WaitIdle()
	s.favorites.WaitIdle()
	if s.closeStore != nil {
		_ = s.closeStore()
	}
}

// run reads one command per line until EOF or quit.
func (s *shell) run(ctx context.Context, in io.Reader) error {
	s.cart.Start(ctx)
	s.favorites.Start(ctx)

	scanner := bufio.NewScanner(in)
	fmt.Fprint(s.out, "> ")
	for scanner.Scan() {
		err := s.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		fmt.Fprint(s.out, "> ")
	}
	return scanner.Err()
}

func (s *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
		return nil
	case "quit", "exit":
		return errQuit
	case "products":
		s.printProducts(strings.Join(args, " "))
		return nil
	case "cart":
		s.printCart()
		return nil
	case "favorites", "favs":
		s.printFavorites()
		return nil
	case "add":
		p, err := s.product(args, 1)
		if err != nil {
			return err
		}
		qty, err := optionalInt(args, 1, 1)
		if err != nil {
			return err
		}
		return s.report(s.cart.AddOrIncrement(ctx, p, qty), s.printCart)
	case "set":
		if len(args) < 2 {
			return usage("set <product> <qty>")
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return usage("set <product> <qty>")
		}
		return s.report(s.cart.SetQuantity(ctx, args[0], qty), s.printCart)
	case "remove", "rm":
		if len(args) < 1 {
			return usage("remove <product>")
		}
		return s.report(s.cart.Remove(ctx, args[0]), s.printCart)
	case "clear":
		return s.report(s.cart.ClearAll(ctx), s.printCart)
	case "fav":
		p, err := s.product(args, 1)
		if err != nil {
			return err
		}
		return s.report(s.favorites.AddOrIncrement(ctx, p, 1), s.printFavorites)
	case "unfav":
		if len(args) < 1 {
			return usage("unfav <product>")
		}
		return s.report(s.favorites.Remove(ctx, args[0]), s.printFavorites)
	case "login":
		if len(args) < 2 {
			return usage("login <email> <password>")
		}
		return s.login(ctx, args[0], args[1])
	case "logout":
		return s.logout(ctx)
	case "reconcile":
		return s.reconcile(ctx)
	case "checkout":
		return s.placeOrder(ctx)
	case "profile":
		return s.profile(ctx)
	}
	return fmt.Errorf("unknown command %q; try help", cmd)
}

// login opens the session and merges both guest collections in parallel.
// A partially merged collection is reported but still active.
func (s *shell) login(ctx context.Context, email, password string) error {
	res := s.client.Login(ctx, email, password)
	if !res.OK() {
		return res.Err
	}
	if res.Value.User == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "login response has no user")
	}
	s.session.SetToken(res.Value.AccessToken)
	userID := res.Value.User.ID.String()

	var g errgroup.Group
	g.Go(func() error { return s.cart.Login(ctx, userID) })
	g.Go(func() error { return s.favorites.Login(ctx, userID) })
	err := g.Wait()

	fmt.Fprintf(s.out, "signed in as %s\n", res.Value.User.Email)
	s.printCart()
	s.printFavorites()
	return err
}

func (s *shell) logout(ctx context.Context) error {
	var err error
	if s.session.Authenticated() {
		if res := s.client.Logout(ctx); !res.OK() {
			err = res.Err
		}
	}
	s.session.Clear()
	s.cart.Logout(ctx)
	s.favorites.Logout(ctx)
	s.avatars.Clear()
	fmt.Fprintln(s.out, "signed out")
	return err
}

func (s *shell) reconcile(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.cart.Reconcile(ctx) })
	g.Go(func() error { return s.favorites.Reconcile(ctx) })
	err := g.Wait()
	s.printCart()
	s.printFavorites()
	return err
}

func (s *shell) placeOrder(ctx context.Context) error {
	order, err := s.checkout.PlaceOrder(ctx).Unwrap()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "order %s placed: %d items, total %s, status %s\n",
		order.OrderNumber, len(order.Items), order.Total.StringFixed(2), order.Status)
	return nil
}

func (s *shell) profile(ctx context.Context) error {
	if !s.session.Authenticated() {
		return pkgerrors.New(pkgerrors.CodeNotAuthenticated, "log in first")
	}
	user, err := s.client.Profile(ctx).Unwrap()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s <%s>\n", user.Name, user.Email)
	if user.Avatar == nil || *user.Avatar == "" {
		fmt.Fprintln(s.out, "avatar: none")
		return nil
	}

	key := imagecache.ContentKey(*user.Avatar)
	blob, cached := s.avatars.Get(key)
	if !cached {
		if blob, err = s.avatars.Set(key, *user.Avatar); err != nil {
			return err
		}
	}
	fmt.Fprintf(s.out, "avatar: %s, %d bytes (cached=%t)\n", blob.ContentType, len(blob.Data), cached)
	return nil
}

// report prints the collection after a mutation. A rejected mutation still
// prints it so the optimistic state is visible.
func (s *shell) report(err error, show func()) error {
	show()
	return err
}

func (s *shell) product(args []string, want int) (collection.Product, error) {
	if len(args) < want {
		return collection.Product{}, usage("<product> is required")
	}
	p, err := s.catalog.Get(args[0])
	if err != nil {
		if p, err = s.catalog.BySlug(args[0]); err != nil {
			return collection.Product{}, err
		}
	}
	return collection.Product{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image, Category: p.Category}, nil
}

func (s *shell) printProducts(query string) {
	products := s.catalog.List()
	if query != "" {
		products = s.catalog.Search(query)
	}
	for _, p := range products {
		fmt.Fprintf(s.out, "  %-4s %-40s %10s  %s\n", p.ID, p.Name, p.Price.StringFixed(2), p.Category)
	}
	fmt.Fprintf(s.out, "%d products\n", len(products))
}

func (s *shell) printCart() {
	view := s.cart.Snapshot()
	fmt.Fprintf(s.out, "cart (%s, %s):\n", view.Scope.Kind, view.State)
	for _, e := range view.Entries {
		fmt.Fprintf(s.out, "  %-4s %-40s x%-3d %10s%s\n",
			e.Entry.ProductID, e.Entry.ProductName, e.Entry.Quantity, e.Entry.TotalPrice.StringFixed(2), pendingMark(e.Confirmed))
	}
	count, total := collection.Totals(view.Collection)
	fmt.Fprintf(s.out, "  %d items, total %s\n", count, total.StringFixed(2))
}

func (s *shell) printFavorites() {
	view := s.favorites.Snapshot()
	fmt.Fprintf(s.out, "favorites (%s, %s):\n", view.Scope.Kind, view.State)
	for _, e := range view.Entries {
		fmt.Fprintf(s.out, "  %-4s %-40s %10s%s\n",
			e.Entry.ProductID, e.Entry.ProductName, e.Entry.Price.StringFixed(2), pendingMark(e.Confirmed))
	}
}

func pendingMark(confirmed bool) string {
	if confirmed {
		return ""
	}
	return "  (pending)"
}

func optionalInt(args []string, idx, fallback int) (int, error) {
	if len(args) <= idx {
		return fallback, nil
	}
	v, err := strconv.Atoi(args[idx])
	if err != nil {
		return 0, usage("quantity must be a number")
	}
	return v, nil
}

func usage(msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "usage: "+msg)
}
