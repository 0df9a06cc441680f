package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/kitcomfeedback-cell/kitchen-store/catalog"
	"github.com/kitcomfeedback-cell/kitchen-store/engine"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/kitcomfeedback-cell/kitchen-store/search"
	"github.com/kitcomfeedback-cell/kitchen-store/shuffle"
	"github.com/spf13/cobra"
)

var searchFlags struct {
	seed        uint64
	subcategory string
	price       string
	sort        string
	limit       int
	json        bool
}

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Run a selector against the catalog file and print the result",
	Long: `search runs the same engine as the API against CATALOG_PATH. With a term it
searches; --subcategory and --price select instead. The shuffle is seeded
with --seed, so a run is reproducible.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := catalog.FileSource{Path: settings.CatalogPath}.Load(cmd.Context())
		if err != nil {
			return err
		}
		snap := catalog.NewSnapshot(doc)

		view := models.HomeView()
		switch {
		case len(args) == 1:
			view = models.SearchView(args[0])
		case searchFlags.subcategory != "":
			view = models.CategoryView(searchFlags.subcategory)
		case searchFlags.price != "":
			view = models.PriceView(searchFlags.price)
		}
		key, ok := models.ParseSortKey(searchFlags.sort)
		if !ok {
			return fmt.Errorf("%w: %q", engine.ErrUnknownSort, searchFlags.sort)
		}
		view.Sort = key

		eng := engine.New(search.NewIndex(logger, nil), engine.Options{
			PriceRanges: settings.PriceRanges,
			Log:         logger,
		})
		in := engine.Input{
			Catalog:  snap,
			Shuffled: shuffle.Shuffle(snap.Products, shuffle.NewRand(searchFlags.seed)),
			Seed:     searchFlags.seed,
		}
		st, err := eng.Rehydrate(in, view)
		if err != nil {
			return err
		}
		products := st.Window()
		if searchFlags.limit > 0 && len(products) > searchFlags.limit {
			products = products[:searchFlags.limit]
		}

		out := cmd.OutOrStdout()
		if searchFlags.json {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(models.StorefrontListing{
				View:     st.View,
				URL:      st.View.URL(),
				Products: catalog.Cards(products),
				Matches:  st.Matches,
			})
		}
		return printProducts(out, st, products)
	},
}

func init() {
	f := searchCmd.Flags()
	f.Uint64Var(&searchFlags.seed, "seed", 1, "shuffle seed")
	f.StringVar(&searchFlags.subcategory, "subcategory", "", "filter by subcategory name")
	f.StringVar(&searchFlags.price, "price", "", "filter by price range label")
	f.StringVar(&searchFlags.sort, "sort", "best", "best, high-low, low-high, latest or new")
	f.IntVar(&searchFlags.limit, "limit", 0, "print at most this many products")
	f.BoolVar(&searchFlags.json, "json", false, "print the listing as JSON")
}

func printProducts(w io.Writer, st engine.State, products []models.Product) error {
	fmt.Fprintf(w, "%s  (%d of %d)\n", st.View.URL(), len(products), len(st.Display))
	// fillers trail the matches only while the list is unsorted
	markFillers := st.View.Mode == models.ModeSearch && st.View.Sort == models.SortBest
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tTITLE\tPRICE\tSUBCATEGORY")
	for i, p := range products {
		price := "-"
		if p.Price != nil {
			price = fmt.Sprintf("%s %.0f", p.Currency, *p.Price)
		}
		marker := ""
		if markFillers && i >= st.Matches {
			marker = " *"
		}
		fmt.Fprintf(tw, "%d%s\t%s\t%s\t%s\t%s\n", i+1, marker, p.ID, truncate(p.Title, 48), price, p.Subcategory)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if markFillers && st.Matches < len(products) {
		fmt.Fprintln(w, "* filler, not a match")
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
