package main

import (
	"encoding/json"
	"flag"
	"fmt"
	mrand "math/rand"
	"os"
	"strings"
	"time"

	"github.com/mithrel/scholia/pkg/api"
)

var (
	subjects = []string{"Graph", "Protein", "Ocean", "Neural", "Soil", "Quantum", "Urban", "Glacier"}
	topics   = []string{"kernels", "folding", "currents", "pruning", "microbiomes", "sensing", "heat islands", "dynamics"}
	authors  = []string{"Ada Lovelace", "Alan Turing", "Rosalind Franklin", "Emmy Noether", "Barbara McClintock"}
	insts    = []string{"University of Leiden", "ETH Zurich", "Kyoto University", "MIT", "University of Cape Town"}
)

// Prints a JSON array of articles for `scholia-cli serve --seed`.
func main() {
	total := flag.Int("n", 50, "number of articles")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(*seed))

	tags := make([]string, 12)
	for i := range tags {
		tags[i] = fmt.Sprintf("topic%02d", i+1)
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	out := make([]api.Article, 0, *total)
	for i := 0; i < *total; i++ {
		title := fmt.Sprintf("%s %s %03d", subjects[mr.Intn(len(subjects))], topics[mr.Intn(len(topics))], i+1)
		paras := make([]string, 1+mr.Intn(4))
		for p := range paras {
			paras[p] = fmt.Sprintf("Paragraph %d of %q. %s", p+1, title, strings.Repeat("Lorem ipsum dolor sit amet. ", 5+mr.Intn(40)))
		}
		var readTime *string
		// Roughly one in five has no read time, like older records.
		if mr.Intn(5) != 0 {
			rt := fmt.Sprintf("%d min read", 1+mr.Intn(15))
			readTime = &rt
		}
		out = append(out, api.Article{
			ArticleSummary: api.ArticleSummary{
				ID:          i + 1,
				Title:       title,
				Author:      authors[mr.Intn(len(authors))],
				Institution: insts[mr.Intn(len(insts))],
				Abstract:    fmt.Sprintf("A study of %s.", strings.ToLower(title)),
				Tags:        sampleTags(mr, tags, 1+mr.Intn(3)),
				Likes:       mr.Intn(500),
				Comments:    mr.Intn(60),
				Shares:      mr.Intn(40),
				Views:       mr.Intn(5000),
				ReadTime:    readTime,
				PublishDate: base.AddDate(0, 0, i*3+mr.Intn(3)).Format("2006-01-02"),
			},
			Content: strings.Join(paras, "\n"),
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

func sampleTags(r *mrand.Rand, pool []string, k int) []string {
	if k >= len(pool) {
		k = len(pool)
	}
	idx := r.Perm(len(pool))[:k]
	out := make([]string, k)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}
