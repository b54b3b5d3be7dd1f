package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"invoicedesk/internal/money"
	"invoicedesk/internal/reports"
)

func (a *app) reportCmd(args []string) {
	if len(args) == 0 {
		log.Fatal("usage: invoicedesk report <summary|top-products|top-customers|bundle>")
	}
	switch args[0] {
	case "summary":
		a.reportSummaryCmd(args[1:])
	case "top-products":
		a.reportTopProductsCmd(args[1:])
	case "top-customers":
		a.reportTopCustomersCmd(args[1:])
	case "bundle":
		a.reportBundleCmd(args[1:])
	default:
		log.Fatalf("unknown report %q", args[0])
	}
}

func (a *app) reportSummaryCmd(args []string) {
	fs := flag.NewFlagSet("report summary", flag.ExitOnError)
	from := fs.String("from", "", "period start YYYY-MM-DD (required)")
	to := fs.String("to", "", "period end YYYY-MM-DD (required)")
	csvPath := fs.String("csv", "", "also write the report as csv")
	xlsxPath := fs.String("xlsx", "", "also write the report as xlsx")
	fs.Parse(args)
	start, end := requirePeriod(*from, *to)

	totals, lines, err := a.reporter.Summary(start, end)
	if err != nil {
		log.Fatalf("report summary: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NO\tDATE\tSUBTOTAL\tSALES TAX\tADV TAX\tQTY")
	for _, l := range lines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			l.InvoiceNo, l.Date, money.FormatMoney(l.Subtotal),
			money.FormatMoney(l.SalesTax), money.FormatMoney(l.AdvanceTax),
			money.FormatQty(l.Qty))
	}
	w.Flush()

	fmt.Println()
	fmt.Printf("Period:               %s to %s\n", totals.PeriodStart, totals.PeriodEnd)
	fmt.Printf("Total sales:          %s\n", money.FormatMoney(totals.TotalSales))
	fmt.Printf("Sales tax collected:  %s\n", money.FormatMoney(totals.TotalSalesTax))
	fmt.Printf("Advance tax:          %s\n", money.FormatMoney(totals.TotalAdvanceTax))
	fmt.Printf("Quantity (pcs):       %s\n", money.FormatQty(totals.TotalQty))
	fmt.Printf("Invoices:             %d\n", totals.InvoiceCount)

	if *csvPath != "" {
		if err := reports.WriteCSV(*csvPath, totals, lines); err != nil {
			log.Fatalf("write csv: %v", err)
		}
		fmt.Printf("csv written to %s\n", *csvPath)
	}
	if *xlsxPath != "" {
		if err := reports.WriteExcel(*xlsxPath, totals, lines); err != nil {
			log.Fatalf("write xlsx: %v", err)
		}
		fmt.Printf("xlsx written to %s\n", *xlsxPath)
	}
}

func (a *app) reportTopProductsCmd(args []string) {
	fs := flag.NewFlagSet("report top-products", flag.ExitOnError)
	from := fs.String("from", "", "period start YYYY-MM-DD (required)")
	to := fs.String("to", "", "period end YYYY-MM-DD (required)")
	limit := fs.Int("limit", 5, "number of products to list")
	fs.Parse(args)
	start, end := requirePeriod(*from, *to)

	standings, err := a.reporter.TopProducts(start, end, *limit)
	if err != nil {
		log.Fatalf("report top-products: %v", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tQTY\tREVENUE")
	for _, s := range standings {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			s.ProductName, money.FormatQty(s.TotalQty), money.FormatMoney(s.TotalRevenue))
	}
	w.Flush()
}

func (a *app) reportTopCustomersCmd(args []string) {
	fs := flag.NewFlagSet("report top-customers", flag.ExitOnError)
	from := fs.String("from", "", "period start YYYY-MM-DD (required)")
	to := fs.String("to", "", "period end YYYY-MM-DD (required)")
	limit := fs.Int("limit", 5, "number of customers to list")
	fs.Parse(args)
	start, end := requirePeriod(*from, *to)

	standings, err := a.reporter.TopCustomers(start, end, *limit)
	if err != nil {
		log.Fatalf("report top-customers: %v", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CUSTOMER\tINVOICES\tSPENT")
	for _, s := range standings {
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.CustomerName, s.InvoiceCount, money.FormatMoney(s.TotalSpent))
	}
	w.Flush()
}

func (a *app) reportBundleCmd(args []string) {
	now := time.Now()
	fs := flag.NewFlagSet("report bundle", flag.ExitOnError)
	year := fs.Int("year", now.Year(), "year of the bundle")
	monthArg := fs.String("month", now.Month().String(), "month, 1-12 or a name")
	out := fs.String("out", filepath.Join(a.cfg.DataDir, "reports"), "output directory")
	noCover := fs.Bool("no-cover", false, "skip the summary cover page")
	fs.Parse(args)

	month, err := parseMonth(*monthArg)
	if err != nil {
		log.Fatalf("report bundle: %v", err)
	}
	path, err := a.reporter.MonthlyBundle(*year, month, *out, !*noCover)
	if err != nil {
		if errors.Is(err, reports.ErrNoDataInRange) {
			log.Fatalf("no invoices found for %s %d", month, *year)
		}
		log.Fatalf("report bundle: %v", err)
	}
	fmt.Println(path)
}

// requirePeriod exits unless both bounds are ISO dates. It hands back
// the reformatted values because the store compares dates as text and
// time.Parse tolerates single-digit months that text order does not.
func requirePeriod(from, to string) (string, string) {
	var bounds [2]string
	for i, v := range []string{from, to} {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			log.Fatal("report: --from and --to are required as YYYY-MM-DD")
		}
		bounds[i] = t.Format("2006-01-02")
	}
	return bounds[0], bounds[1]
}

func parseMonth(s string) (time.Month, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), nil
		}
		return 0, fmt.Errorf("month %d out of range", n)
	}
	t, err := time.Parse("January", s)
	if err != nil {
		return 0, fmt.Errorf("month %q: want 1-12 or a month name", s)
	}
	return t.Month(), nil
}
