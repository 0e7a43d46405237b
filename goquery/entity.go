package goquery

import (
	"strings"

	"github.com/geogate/geogate"
	"github.com/PuerkitoBio/goquery"
)

// entityRule pairs a predicate with the schema.org type it selects. The
// slice ordering of entityRules is the precedence policy: rules are
// evaluated in order and the first match wins.
type entityRule struct {
	entity geogate.EntityType
	match  func(doc *goquery.Document, article *geogate.CleanedArticle) bool
}

var entityRules = []entityRule{
	{geogate.EntityProduct, isProduct},
	{geogate.EntityNewsArticle, isNewsArticle},
	{geogate.EntityBlogPosting, isBlogPosting},
}

// classifyEntity assigns the page's main entity type via the ordered
// rule cascade, defaulting to Article.
func classifyEntity(doc *goquery.Document, article *geogate.CleanedArticle) geogate.EntityType {
	for _, rule := range entityRules {
		if rule.match(doc, article) {
			return rule.entity
		}
	}
	return geogate.EntityArticle
}

// productTerms are purchase/price/stock markers, Latin terms lower-case.
var productTerms = []string{
	"add to cart",
	"buy now",
	"in stock",
	"out of stock",
	"free shipping",
	"价格",
	"购买",
	"立即购买",
	"库存",
	"促销",
}

func isProduct(doc *goquery.Document, article *geogate.CleanedArticle) bool {
	if doc.Find("[itemprop='price'], .price").Length() > 0 {
		return true
	}
	return containsAny(strings.ToLower(article.TextContent), productTerms)
}

// newsTerms are reporter/wire-style markers.
var newsTerms = []string{
	"记者",
	"报道",
	"通讯员",
	"新华社",
	"reporting by",
	"correspondent",
	"newsroom",
}

func isNewsArticle(doc *goquery.Document, article *geogate.CleanedArticle) bool {
	if article.PublishedTime != "" {
		return true
	}
	if doc.Find("meta[property='article:published_time']").Length() > 0 {
		return true
	}
	return containsAny(strings.ToLower(article.TextContent), newsTerms)
}

// authorTerms are byline-style markers.
var authorTerms = []string{
	"作者",
	"原创",
	"written by",
	"posted by",
}

func isBlogPosting(doc *goquery.Document, article *geogate.CleanedArticle) bool {
	if article.Byline != "" {
		return true
	}
	if doc.Find(".author, [rel='author']").Length() > 0 {
		return true
	}
	return containsAny(strings.ToLower(article.TextContent), authorTerms)
}

// containsAny reports whether text contains any of the terms.
func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
