package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/apiclient"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/pricing"
	"storefront/internal/reconcile"
	"storefront/internal/session"
)

var errUsage = errors.New("usage")

// shell holds the per-invocation client state.
type shell struct {
	out    io.Writer
	errOut io.Writer
	sess   *session.Session
	client *apiclient.Client
	cart   *reconcile.Reconciler
	logger *zap.Logger
}

func newShell(cfg config.ClientConfig, tokens session.TokenStore, logger *zap.Logger, out, errOut io.Writer) (*shell, error) {
	sess := session.New(tokens)
	if _, err := sess.Restore(); err != nil {
		return nil, err
	}
	client, err := apiclient.New(apiclient.Options{
		BaseURL: cfg.StoreURL,
		Timeout: cfg.Timeout,
		Tokens:  sess,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	sh := &shell{
		out:    out,
		errOut: errOut,
		sess:   sess,
		client: client,
		logger: logger,
	}
	sh.cart = reconcile.New(client, sess.CartCount(),
		reconcile.WithLogger(logger),
		reconcile.WithNotifier(reconcile.NotifierFunc(func(n reconcile.Notice) {
			fmt.Fprintf(sh.errOut, "! %s\n", n.Message)
		})),
	)
	return sh, nil
}

func (s *shell) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(s.errOut, usage)
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return s.register(ctx, rest)
	case "login":
		return s.login(ctx, rest)
	case "logout":
		return s.logout(ctx)
	case "me":
		return s.me(ctx)
	case "products":
		return s.products(ctx, rest)
	case "product":
		return s.product(ctx, rest)
	case "cart":
		if err := s.cart.Refresh(ctx); err != nil {
			return err
		}
		s.printCart()
		return nil
	case "add":
		return s.add(ctx, rest)
	case "qty":
		return s.quantity(ctx, rest)
	case "size":
		return s.size(ctx, rest)
	case "remove":
		return s.remove(ctx, rest)
	case "clear":
		if err := s.cart.Clear(ctx); err != nil {
			return err
		}
		s.printCart()
		return nil
	case "wishlist":
		return s.wishlist(ctx, rest)
	case "quote":
		return s.quote(ctx, rest)
	case "checkout":
		return s.checkout(ctx, rest)
	default:
		fmt.Fprintf(s.errOut, "unknown command %q\n%s", cmd, usage)
		return errUsage
	}
}

func (s *shell) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(s.errOut)
	return fs
}

func (s *shell) register(ctx context.Context, args []string) error {
	fs := s.flags("register")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := s.client.Register(ctx, *email, *password, *name)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "registered %s (%s)\n", user.Email, user.ID)
	return nil
}

func (s *shell) login(ctx context.Context, args []string) error {
	fs := s.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := s.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := s.sess.Begin(res.Token); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "logged in as %s, session valid for %s\n", res.User.Email, time.Duration(res.ExpiresIn)*time.Second)
	return nil
}

// logout ends the local session even when the store no longer knows the
// token.
func (s *shell) logout(ctx context.Context) error {
	if s.sess.Authenticated() {
		if err := s.client.Logout(ctx); err != nil && !apiclient.IsUnauthenticated(err) {
			s.logger.Warn("remote logout failed", zap.Error(err))
		}
	}
	if err := s.sess.End(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "logged out")
	return nil
}

func (s *shell) me(ctx context.Context) error {
	user, err := s.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s <%s> role=%s\n", user.Name, user.Email, user.Role)
	return nil
}

func (s *shell) products(ctx context.Context, args []string) error {
	fs := s.flags("products")
	limit := fs.Int("limit", 20, "page size")
	offset := fs.Int("offset", 0, "page offset")
	if err := fs.Parse(args); err != nil {
		return err
	}
	page, err := s.client.ListProducts(ctx, *limit, *offset)
	if err != nil {
		return err
	}
	for _, p := range page.Results {
		s.printProduct(p)
	}
	fmt.Fprintf(s.out, "%d-%d of %d\n", page.Offset+min(1, page.Count), page.Offset+page.Count, page.Total)
	return nil
}

func (s *shell) product(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(s.errOut, "usage: shopctl product <id>")
		return errUsage
	}
	p, err := s.client.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}
	s.printProduct(*p)
	if p.Description != "" {
		fmt.Fprintf(s.out, "  %s\n", p.Description)
	}
	return nil
}

func (s *shell) add(ctx context.Context, args []string) error {
	fs := s.flags("add")
	productID := fs.String("product", "", "product id")
	qty := fs.Int("qty", 1, "quantity")
	size := fs.String("size", "", "size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := s.cart.Add(ctx, *productID, *qty, *size); err != nil {
		return err
	}
	s.printCart()
	return nil
}

func (s *shell) quantity(ctx context.Context, args []string) error {
	fs := s.flags("qty")
	productID := fs.String("product", "", "product id")
	delta := fs.Int("delta", 1, "change in quantity, negative to decrease")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := s.cart.Refresh(ctx); err != nil {
		return err
	}
	if _, err := s.cart.UpdateQuantity(ctx, *productID, *delta); err != nil {
		return err
	}
	s.printCart()
	return nil
}

func (s *shell) size(ctx context.Context, args []string) error {
	fs := s.flags("size")
	productID := fs.String("product", "", "product id")
	size := fs.String("size", "", "new size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := s.cart.Refresh(ctx); err != nil {
		return err
	}
	if err := s.cart.UpdateItemSize(ctx, *productID, *size); err != nil {
		return err
	}
	s.printCart()
	return nil
}

func (s *shell) remove(ctx context.Context, args []string) error {
	fs := s.flags("remove")
	productID := fs.String("product", "", "product id")
	size := fs.String("size", "", "size, empty removes every line of the product")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := s.cart.Refresh(ctx); err != nil {
		return err
	}
	if err := s.cart.RemoveItem(ctx, *productID, *size); err != nil {
		return err
	}
	s.printCart()
	return nil
}

func (s *shell) wishlist(ctx context.Context, args []string) error {
	var (
		w   *domain.Wishlist
		err error
	)
	switch {
	case len(args) == 0:
		w, err = s.client.GetWishlist(ctx)
	case len(args) == 2 && args[0] == "add":
		w, err = s.client.AddToWishlist(ctx, args[1])
	case len(args) == 2 && args[0] == "remove":
		w, err = s.client.RemoveFromWishlist(ctx, args[1])
	default:
		fmt.Fprintln(s.errOut, "usage: shopctl wishlist [add|remove <id>]")
		return errUsage
	}
	if err != nil {
		return err
	}
	if len(w.ProductIDs) == 0 {
		fmt.Fprintln(s.out, "wishlist is empty")
		return nil
	}
	for _, id := range w.ProductIDs {
		fmt.Fprintln(s.out, id)
	}
	return nil
}

type checkoutFlags struct {
	shipping *string
	code     *string
}

func (s *shell) pricingFlags(fs *flag.FlagSet) checkoutFlags {
	return checkoutFlags{
		shipping: fs.String("shipping", string(pricing.ShippingStandard), "standard, fast or airplane"),
		code:     fs.String("code", "", "discount code"),
	}
}

// prepare loads the cart and applies the shipping and discount choices.
func (s *shell) prepare(ctx context.Context, f checkoutFlags) (*checkout.Checkout, error) {
	opt, err := pricing.ParseShippingOption(*f.shipping)
	if err != nil {
		return nil, err
	}
	if err := s.cart.Refresh(ctx); err != nil {
		return nil, err
	}
	co := checkout.New(s.cart, nil)
	if err := co.SelectShipping(opt); err != nil {
		return nil, err
	}
	if *f.code != "" && !co.ApplyDiscountCode(*f.code) {
		fmt.Fprintf(s.errOut, "! discount code %q is not valid\n", *f.code)
	}
	return co, nil
}

func (s *shell) quote(ctx context.Context, args []string) error {
	fs := s.flags("quote")
	f := s.pricingFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	co, err := s.prepare(ctx, f)
	if err != nil {
		return err
	}
	q, err := co.Quote()
	if err != nil {
		return err
	}
	s.printCart()
	fmt.Fprintf(s.out, "shipping (%s): %s\n", q.ShippingOption, q.ShippingDisplay)
	if q.DiscountValid {
		fmt.Fprintf(s.out, "discount %s: -%s\n", q.DiscountCode, q.Discount.StringFixed(2))
	}
	fmt.Fprintf(s.out, "total: %s\n", q.AdjustedTotal.StringFixed(2))
	return nil
}

func (s *shell) checkout(ctx context.Context, args []string) error {
	fs := s.flags("checkout")
	f := s.pricingFlags(fs)
	var addr domain.Address
	fs.StringVar(&addr.FullName, "name", "", "recipient name")
	fs.StringVar(&addr.Street, "street", "", "street address")
	fs.StringVar(&addr.City, "city", "", "city")
	fs.StringVar(&addr.PostalCode, "postal", "", "postal code")
	fs.StringVar(&addr.Country, "country", "", "country")
	fs.StringVar(&addr.Phone, "phone", "", "phone")
	provider := fs.String("provider", "manual", "payment provider")
	txn := fs.String("txn", "", "approved payment transaction id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*txn) == "" {
		*txn = uuid.NewString()
	}

	co, err := s.prepare(ctx, f)
	if err != nil {
		return err
	}
	co.SetAddress(addr)
	draft, err := co.Confirm(domain.PaymentDetails{
		Provider:      *provider,
		TransactionID: *txn,
		Status:        domain.PaymentApproved,
		PaidAt:        time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	s.logger.Info("order draft created", zap.String("draft_id", draft.ID()), zap.String("total", draft.AdjustedTotal().String()))

	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(draft)
}

func (s *shell) printProduct(p domain.Product) {
	price := p.BasePrice.StringFixed(2)
	if eff := p.EffectivePrice(); !eff.Equal(p.BasePrice) {
		price = fmt.Sprintf("%s (was %s)", eff.StringFixed(2), p.BasePrice.StringFixed(2))
	}
	line := fmt.Sprintf("%-14s %-18s %s", p.ID, p.Name, price)
	if len(p.Sizes) > 0 {
		line += " sizes " + strings.Join(p.Sizes, "/")
	}
	fmt.Fprintln(s.out, line)
}

func (s *shell) printCart() {
	items := s.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(s.out, "cart is empty")
		return
	}
	for _, it := range items {
		size := it.Size
		if size == "" {
			size = "-"
		}
		fmt.Fprintf(s.out, "%-14s %-4s x%-3d %s\n", it.ProductID, size, it.Quantity, it.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(s.out, "lines: %d  subtotal: %s  savings: %s\n",
		s.sess.CartCount().Value(), s.cart.Subtotal().StringFixed(2), s.cart.Savings().StringFixed(2))
}
