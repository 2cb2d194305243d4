package scenario

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"facette.io/natsort"

	"github.com/wfunc/turnsim/atm"
	"github.com/wfunc/turnsim/coupon"
	"github.com/wfunc/turnsim/delivery"
	"github.com/wfunc/turnsim/payment"
	"github.com/wfunc/turnsim/splitwise"
)

func ATM(_ context.Context, env Env) error {
	stock, err := env.Config.ATM.Denominations()
	if err != nil {
		return err
	}
	chain, err := atm.NewChain(stock, env.Out)
	if err != nil {
		return err
	}

	for _, amount := range []int{2800, 4300, 10000} {
		env.Out.Report("Withdrawing Rs %d", amount)
		d, err := chain.Dispense(amount)
		if err != nil {
			return err
		}
		if !d.Fulfilled() {
			env.Out.Report("Paid Rs %d of %d", d.Paid(), d.Requested)
		}
	}

	left := chain.Stock()
	for _, denom := range chain.Denominations() {
		env.Out.Report("Rs %d notes left: %d", denom, left[denom])
	}
	return nil
}

func Splitwise(_ context.Context, env Env) error {
	sw := splitwise.New(env.Out)
	aditya := sw.CreateUser("Aditya", "aditya@gmail.com")
	rohit := sw.CreateUser("Rohit", "rohit@gmail.com")
	manish := sw.CreateUser("Manish", "manish@gmail.com")
	saurav := sw.CreateUser("Saurav", "saurav@gmail.com")

	g := sw.CreateGroup("Hostel Expenses")
	everyone := []*splitwise.User{aditya, rohit, manish, saurav}
	ids := make([]string, len(everyone))
	for i, u := range everyone {
		if err := sw.AddUserToGroup(u.ID, g.ID); err != nil {
			return err
		}
		ids[i] = u.ID
	}

	if _, err := sw.AddGroupExpense(g.ID, "Lunch", 800, aditya.ID, ids, splitwise.Equal); err != nil {
		return err
	}
	if _, err := sw.AddGroupExpense(g.ID, "Dinner", 700, manish.ID,
		[]string{aditya.ID, manish.ID, saurav.ID}, splitwise.Exact, 200, 300, 200); err != nil {
		return err
	}

	env.Out.Report("--- Balances before simplification ---")
	reportBalances(env, sw, g)

	if err := sw.SimplifyGroup(g.ID); err != nil {
		return err
	}
	env.Out.Report("--- Balances after simplification ---")
	reportBalances(env, sw, g)

	// Rohit still owes money, so the first attempt is refused.
	if _, err := sw.RemoveUserFromGroup(rohit.ID, g.ID); err != nil {
		return err
	}
	if err := sw.SettleInGroup(g.ID, rohit.ID, manish.ID, 200); err != nil {
		return err
	}
	if _, err := sw.RemoveUserFromGroup(rohit.ID, g.ID); err != nil {
		return err
	}

	if _, err := sw.AddIndividualExpense("Movie tickets", 600, saurav.ID, aditya.ID, splitwise.Percentage, 50, 50); err != nil {
		return err
	}
	b, err := sw.UserBalance(aditya.ID)
	if err != nil {
		return err
	}
	// Owed is what Aditya still has to pay out.
	if b.Owed <= 0 {
		return nil
	}
	return sw.SettleIndividual(aditya.ID, saurav.ID, b.Owed)
}

// reportBalances prints the sheet in natural ID order. A positive
// b[creditor][debtor] means debtor owes creditor.
func reportBalances(env Env, sw *splitwise.Splitwise, g *splitwise.Group) {
	b := g.Balances()
	creditors := make([]string, 0, len(b))
	for id := range b {
		creditors = append(creditors, id)
	}
	natsort.Sort(creditors)

	for _, creditor := range creditors {
		debtors := make([]string, 0, len(b[creditor]))
		for id := range b[creditor] {
			debtors = append(debtors, id)
		}
		natsort.Sort(debtors)
		for _, debtor := range debtors {
			amount := b[creditor][debtor]
			if amount <= 0 {
				continue
			}
			env.Out.Report("%s owes %s: Rs %.2f", userName(sw, debtor), userName(sw, creditor), amount)
		}
	}
}

func userName(sw *splitwise.Splitwise, id string) string {
	if u, err := sw.User(id); err == nil {
		return u.Name
	}
	return id
}

func Payment(_ context.Context, env Env) error {
	factory := payment.NewFactory(payment.Options{
		PaytmRetries:    env.Config.Payment.Retries.Paytm,
		RazorpayRetries: env.Config.Payment.Retries.Razorpay,
		Source:          env.Source,
		Reporter:        env.Out,
	})
	controller := payment.NewController(factory, payment.NewService(env.Out))

	requests := []struct {
		gateway payment.GatewayType
		req     payment.Request
	}{
		{payment.PaytmGateway, payment.Request{Sender: "Aditya", Receiver: "Shubham", Amount: 1000, Currency: "INR"}},
		{payment.PaytmGateway, payment.Request{Sender: "Shubham", Receiver: "Aditya", Amount: 500, Currency: "USD"}},
		{payment.RazorpayGateway, payment.Request{Sender: "Shubham", Receiver: "Aditya", Amount: 2500, Currency: "USD"}},
		{"upi", payment.Request{Sender: "Aditya", Receiver: "Rohit", Amount: 10, Currency: "INR"}},
	}
	for _, r := range requests {
		ok, err := controller.Handle(r.gateway, r.req)
		if errors.Is(err, payment.ErrUnknownGateway) {
			env.Out.Report("Skipping %s: %v", r.gateway, err)
			continue
		}
		if err != nil {
			return err
		}
		status := "failed"
		if ok {
			status = "succeeded"
		}
		env.Out.Report("Payment of %.2f %s via %s %s", r.req.Amount, r.req.Currency, r.gateway, status)
	}
	return nil
}

func Coupon(_ context.Context, env Env) error {
	c := coupon.NewCart()
	c.Add(coupon.Product{Name: "Winter Jacket", Category: "Clothing", Price: 1000}, 1)
	c.Add(coupon.Product{Name: "Smartphone", Category: "Electronics", Price: 20000}, 1)
	c.Add(coupon.Product{Name: "Jeans", Category: "Clothing", Price: 1000}, 2)
	c.Add(coupon.Product{Name: "Headphones", Category: "Electronics", Price: 2000}, 1)
	c.LoyaltyMember = true
	c.PaymentBank = "ABC"

	m := coupon.NewManager(env.Out)
	m.Register(coupon.Seasonal{Percent: 10, Category: "Clothing"})
	m.Register(coupon.Loyalty{Percent: 5})
	m.Register(coupon.BulkPurchase{Threshold: 1000, FlatOff: 100})
	m.Register(coupon.Bank{Bank: "ABC", MinSpend: 2000, Percent: 15, Cap: 500})

	env.Out.Report("Original Cart Total: %.2f Rs", c.OriginalTotal())
	for _, name := range m.Applicable(c) {
		env.Out.Report(" - %s", name)
	}

	total, applied := m.ApplyAll(c)
	for _, a := range applied {
		env.Out.Report("Applied %s: -%.2f", a.Name, a.Amount)
	}
	env.Out.Report("Final Cart Total after discounts: %.2f Rs", total)
	return nil
}

func Delivery(_ context.Context, env Env) error {
	registry := &delivery.Registry{}
	stores := map[string]*delivery.Store{
		"A": delivery.NewStore("DarkStoreA", 0, 0, env.Out),
		"B": delivery.NewStore("DarkStoreB", 4, 1, env.Out),
		"C": delivery.NewStore("DarkStoreC", 2, 3, env.Out),
	}
	stores["A"].AddStock(101, 5)
	stores["A"].AddStock(102, 2)
	stores["B"].AddStock(101, 3)
	stores["B"].AddStock(103, 10)
	stores["C"].AddStock(102, 5)
	stores["C"].AddStock(201, 7)

	names := make([]string, 0, len(stores))
	for k := range stores {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		stores[k].SetReplenisher(delivery.Threshold{Threshold: 3, Reporter: env.Out})
		registry.Register(stores[k])
	}

	orders := delivery.NewOrderManager(registry, env.Out)
	carts := []struct {
		customer string
		lines    [][2]int
	}{
		{"Aditya", [][2]int{{101, 2}, {102, 1}}},
		{"Rohit", [][2]int{{101, 4}, {102, 3}, {103, 2}}},
	}
	for _, c := range carts {
		customer := &delivery.Customer{Name: c.customer, X: 1, Y: 1}
		for _, l := range c.lines {
			if err := customer.Cart.Add(l[0], l[1]); err != nil {
				return err
			}
		}
		o, err := orders.Place(customer)
		if err != nil {
			return fmt.Errorf("order for %s: %w", c.customer, err)
		}
		env.Out.Report("Order %d for %s: total Rs %.2f, split: %t", o.ID, o.Customer, o.Total, o.Split())
	}

	stores["A"].Replenish(map[int]int{101: 5, 102: 5})
	env.Out.Report("DarkStoreA now holds %d x 101 and %d x 102", stores["A"].Stock(101), stores["A"].Stock(102))
	return nil
}
