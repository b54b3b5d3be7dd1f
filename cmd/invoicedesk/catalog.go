package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"invoicedesk/internal/models"
	"invoicedesk/internal/money"
	"invoicedesk/internal/store"
)

func (a *app) companyCmd(args []string) {
	if len(args) == 0 {
		log.Fatal("usage: invoicedesk company <set|show>")
	}
	switch args[0] {
	case "set":
		fs := flag.NewFlagSet("company set", flag.ExitOnError)
		name := fs.String("name", "", "company name (required)")
		address := fs.String("address", "", "street address")
		contact := fs.String("contact", "", "phone or email")
		ntn := fs.String("ntn", "", "national tax number")
		strn := fs.String("strn", "", "sales tax registration number")
		fs.Parse(args[1:])

		existing, err := a.store.Company()
		if err != nil {
			log.Fatalf("load company: %v", err)
		}
		c := models.Company{Name: *name, Address: *address, Contact: *contact, NTN: *ntn, STRN: *strn}
		if existing != nil {
			// Partial update: untouched flags keep their stored value.
			c = *existing
			fs.Visit(func(f *flag.Flag) {
				switch f.Name {
				case "name":
					c.Name = *name
				case "address":
					c.Address = *address
				case "contact":
					c.Contact = *contact
				case "ntn":
					c.NTN = *ntn
				case "strn":
					c.STRN = *strn
				}
			})
		}
		saved, err := a.store.SaveCompany(c)
		if err != nil {
			if errors.Is(err, store.ErrCompanyNameRequired) {
				log.Fatal("company set: --name is required")
			}
			log.Fatalf("save company: %v", err)
		}
		fmt.Printf("company profile saved (id %d)\n", saved.ID)
	case "show":
		c, err := a.store.Company()
		if err != nil {
			log.Fatalf("load company: %v", err)
		}
		if c == nil {
			fmt.Println("no company profile yet; run 'invoicedesk company set --name ...'")
			return
		}
		fmt.Printf("Name:     %s\n", c.Name)
		fmt.Printf("Address:  %s\n", c.Address)
		fmt.Printf("Contact:  %s\n", c.Contact)
		fmt.Printf("NTN:      %s\n", c.NTN)
		fmt.Printf("STRN:     %s\n", c.STRN)
	default:
		log.Fatalf("unknown company action %q (want set or show)", args[0])
	}
}

func (a *app) customerCmd(args []string) {
	if len(args) == 0 {
		log.Fatal("usage: invoicedesk customer <add|update|list|search|show|delete|price>")
	}
	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("customer add", flag.ExitOnError)
		name := fs.String("name", "", "customer name (required)")
		address := fs.String("address", "", "street address")
		contact := fs.String("contact", "", "phone or email")
		ntn := fs.String("ntn", "", "national tax number")
		strn := fs.String("strn", "", "sales tax registration number")
		email := fs.String("email", "", "email address")
		fs.Parse(args[1:])
		if strings.TrimSpace(*name) == "" {
			log.Fatal("customer add: --name is required")
		}
		c := models.Customer{Name: *name, Address: *address, Contact: *contact, NTN: *ntn, STRN: *strn, Email: *email}
		if err := a.store.CreateCustomer(&c); err != nil {
			log.Fatalf("create customer: %v", err)
		}
		fmt.Printf("customer %d created\n", c.ID)
	case "update":
		fs := flag.NewFlagSet("customer update", flag.ExitOnError)
		id := fs.Uint("id", 0, "customer id (required)")
		name := fs.String("name", "", "new name")
		address := fs.String("address", "", "new address")
		contact := fs.String("contact", "", "new contact")
		ntn := fs.String("ntn", "", "new ntn")
		strn := fs.String("strn", "", "new strn")
		email := fs.String("email", "", "new email")
		fs.Parse(args[1:])
		if *id == 0 {
			log.Fatal("customer update: --id is required")
		}
		c, err := a.store.CustomerByID(*id)
		if err != nil {
			log.Fatalf("load customer %d: %v", *id, err)
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				c.Name = *name
			case "address":
				c.Address = *address
			case "contact":
				c.Contact = *contact
			case "ntn":
				c.NTN = *ntn
			case "strn":
				c.STRN = *strn
			case "email":
				c.Email = *email
			}
		})
		if err := a.store.UpdateCustomer(c); err != nil {
			log.Fatalf("update customer: %v", err)
		}
		fmt.Printf("customer %d updated\n", c.ID)
	case "list", "search":
		var (
			customers []models.Customer
			err       error
		)
		if args[0] == "search" {
			if len(args) < 2 {
				log.Fatal("usage: invoicedesk customer search <query>")
			}
			customers, err = a.store.SearchCustomers(strings.Join(args[1:], " "))
		} else {
			customers, err = a.store.Customers()
		}
		if err != nil {
			log.Fatalf("list customers: %v", err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCONTACT\tNTN\tSTRN")
		for _, c := range customers {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Contact, c.NTN, c.STRN)
		}
		w.Flush()
	case "show":
		fs := flag.NewFlagSet("customer show", flag.ExitOnError)
		id := fs.Uint("id", 0, "customer id (required)")
		fs.Parse(args[1:])
		if *id == 0 {
			log.Fatal("customer show: --id is required")
		}
		c, err := a.store.CustomerByID(*id)
		if err != nil {
			log.Fatalf("load customer %d: %v", *id, err)
		}
		fmt.Printf("Name:     %s\n", c.Name)
		fmt.Printf("Address:  %s\n", c.Address)
		fmt.Printf("Contact:  %s\n", c.Contact)
		fmt.Printf("NTN:      %s\n", c.NTN)
		fmt.Printf("STRN:     %s\n", c.STRN)
		fmt.Printf("Email:    %s\n", c.Email)
		overrides, err := a.store.PriceOverridesForCustomer(*id)
		if err != nil {
			log.Fatalf("load price overrides: %v", err)
		}
		if len(overrides) > 0 {
			fmt.Println("Price overrides:")
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "  PRODUCT\tPRICE")
			for _, o := range overrides {
				fmt.Fprintf(w, "  %s\t%s\n", o.ProductName, money.FormatMoney(o.CustomPrice))
			}
			w.Flush()
		}
	case "delete":
		fs := flag.NewFlagSet("customer delete", flag.ExitOnError)
		id := fs.Uint("id", 0, "customer id (required)")
		fs.Parse(args[1:])
		if *id == 0 {
			log.Fatal("customer delete: --id is required")
		}
		if err := a.store.DeleteCustomer(*id); err != nil {
			if errors.Is(err, store.ErrCustomerHasInvoices) {
				log.Fatalf("customer %d has invoices on file and cannot be deleted", *id)
			}
			log.Fatalf("delete customer: %v", err)
		}
		fmt.Printf("customer %d deleted\n", *id)
	case "price":
		a.customerPriceCmd(args[1:])
	default:
		log.Fatalf("unknown customer action %q", args[0])
	}
}

func (a *app) customerPriceCmd(args []string) {
	if len(args) == 0 {
		log.Fatal("usage: invoicedesk customer price <set|delete>")
	}
	fs := flag.NewFlagSet("customer price "+args[0], flag.ExitOnError)
	customerID := fs.Uint("customer", 0, "customer id (required)")
	productID := fs.Uint("product", 0, "product id (required)")
	price := fs.String("price", "", "override unit price")
	fs.Parse(args[1:])
	if *customerID == 0 || *productID == 0 {
		log.Fatal("customer price: --customer and --product are required")
	}
	switch args[0] {
	case "set":
		d := money.OrZero(*price)
		if err := a.store.UpsertPriceOverride(*customerID, *productID, d); err != nil {
			log.Fatalf("set price override: %v", err)
		}
		fmt.Printf("price override saved: customer %d pays %s for product %d\n",
			*customerID, money.FormatMoney(d), *productID)
	case "delete":
		if err := a.store.DeletePriceOverride(*customerID, *productID); err != nil {
			log.Fatalf("delete price override: %v", err)
		}
		fmt.Println("price override removed")
	default:
		log.Fatalf("unknown customer price action %q (want set or delete)", args[0])
	}
}

func (a *app) productCmd(args []string) {
	if len(args) == 0 {
		log.Fatal("usage: invoicedesk product <add|update|list|search|price|delete>")
	}
	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("product add", flag.ExitOnError)
		name := fs.String("name", "", "product name (required)")
		desc := fs.String("desc", "", "description")
		sku := fs.String("sku", "", "stock keeping unit")
		barcode := fs.String("barcode", "", "barcode")
		price := fs.String("price", "0", "unit price")
		tax := fs.String("tax", "18", "sales tax percent")
		fs.Parse(args[1:])
		if strings.TrimSpace(*name) == "" {
			log.Fatal("product add: --name is required")
		}
		p := models.Product{
			Name:        *name,
			Description: *desc,
			SKU:         *sku,
			Barcode:     *barcode,
			UnitPrice:   money.OrZero(*price),
			TaxRate:     money.OrZero(*tax),
			Active:      true,
		}
		if err := a.store.CreateProduct(&p); err != nil {
			log.Fatalf("create product: %v", err)
		}
		fmt.Printf("product %d created\n", p.ID)
	case "update":
		fs := flag.NewFlagSet("product update", flag.ExitOnError)
		id := fs.Uint("id", 0, "product id (required)")
		name := fs.String("name", "", "new name")
		desc := fs.String("desc", "", "new description")
		sku := fs.String("sku", "", "new sku")
		barcode := fs.String("barcode", "", "new barcode")
		price := fs.String("price", "", "new unit price")
		tax := fs.String("tax", "", "new sales tax percent")
		active := fs.Bool("active", true, "active flag")
		fs.Parse(args[1:])
		if *id == 0 {
			log.Fatal("product update: --id is required")
		}
		p, err := a.store.ProductByID(*id)
		if err != nil {
			log.Fatalf("load product %d: %v", *id, err)
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				p.Name = *name
			case "desc":
				p.Description = *desc
			case "sku":
				p.SKU = *sku
			case "barcode":
				p.Barcode = *barcode
			case "price":
				p.UnitPrice = money.OrZero(*price)
			case "tax":
				p.TaxRate = money.OrZero(*tax)
			case "active":
				p.Active = *active
			}
		})
		if err := a.store.UpdateProduct(p); err != nil {
			log.Fatalf("update product: %v", err)
		}
		fmt.Printf("product %d updated\n", p.ID)
	case "list", "search":
		var (
			products []models.Product
			err      error
		)
		if args[0] == "search" {
			if len(args) < 2 {
				log.Fatal("usage: invoicedesk product search <query>")
			}
			products, err = a.store.SearchProducts(strings.Join(args[1:], " "))
		} else {
			fs := flag.NewFlagSet("product list", flag.ExitOnError)
			all := fs.Bool("all", false, "include inactive products")
			fs.Parse(args[1:])
			products, err = a.store.Products(*all)
		}
		if err != nil {
			log.Fatalf("list products: %v", err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSKU\tPRICE\tTAX%\tACTIVE")
		for _, p := range products {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%v\n",
				p.ID, p.Name, p.SKU, money.FormatMoney(p.UnitPrice), p.TaxRate.String(), p.Active)
		}
		w.Flush()
	case "price":
		fs := flag.NewFlagSet("product price", flag.ExitOnError)
		id := fs.Uint("id", 0, "product id (required)")
		price := fs.String("price", "", "new unit price (required)")
		fs.Parse(args[1:])
		if *id == 0 || strings.TrimSpace(*price) == "" {
			log.Fatal("product price: --id and --price are required")
		}
		if err := a.store.UpdateProductPrice(*id, money.OrZero(*price)); err != nil {
			log.Fatalf("update price: %v", err)
		}
		fmt.Printf("product %d price set to %s\n", *id, money.FormatMoney(money.OrZero(*price)))
	case "delete":
		fs := flag.NewFlagSet("product delete", flag.ExitOnError)
		id := fs.Uint("id", 0, "product id (required)")
		fs.Parse(args[1:])
		if *id == 0 {
			log.Fatal("product delete: --id is required")
		}
		if err := a.store.DeleteProduct(*id); err != nil {
			log.Fatalf("delete product: %v", err)
		}
		fmt.Printf("product %d deactivated\n", *id)
	default:
		log.Fatalf("unknown product action %q", args[0])
	}
}
