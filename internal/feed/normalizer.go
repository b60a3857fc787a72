package feed

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ofertas/internal/model"
)

// Ordem posicional das colunas do aaData:
// [id, published_at, company, product_html, volume, delivery_start, delivery_end,
//  price_formula, ncm, delivery_location, notes_html, basin_html, pdf_button_html, vigente]
const (
	colID = iota
	colPublishedAt
	colCompany
	colProduct
	colVolume
	colDeliveryStart
	colDeliveryEnd
	colPriceFormula
	colNCM
	colDeliveryLocation
	colNotes
	colBasin
	colPDFButton
	colVigente
)

var (
	brRe         = regexp.MustCompile(`(?i)<br\s*/?\s*>`)
	blockCloseRe = regexp.MustCompile(`(?i)</(p|div|li|tr|td|h[1-6])>`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	pdfOpenRe    = regexp.MustCompile(`window\.open\('([^']*descarga_pdf_oferta\.php\?[^']*)'`)
)

// Normalize converte uma linha crua do feed em uma Offer tipada.
// Retorna ok=false quando a linha não traz um id numérico (descartar).
// Nunca falha: campo que não parseia vira zero/nil.
func Normalize(row []any, origin *url.URL) (model.Offer, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(fieldAt(row, colID)))
	if err != nil {
		return model.Offer{}, false
	}

	o := model.Offer{
		ID:               id,
		PublishedAt:      parseDateTime(fieldAt(row, colPublishedAt)),
		Company:          strings.TrimSpace(fieldAt(row, colCompany)),
		Product:          htmlToText(fieldAt(row, colProduct)),
		Volume:           strings.TrimSpace(fieldAt(row, colVolume)),
		DeliveryStart:    parseDate(fieldAt(row, colDeliveryStart)),
		DeliveryEnd:      parseDate(fieldAt(row, colDeliveryEnd)),
		PriceFormula:     strings.TrimSpace(fieldAt(row, colPriceFormula)),
		NCM:              strings.TrimSpace(fieldAt(row, colNCM)),
		DeliveryLocation: strings.TrimSpace(fieldAt(row, colDeliveryLocation)),
		Notes:            htmlToText(fieldAt(row, colNotes)),
		Basin:            htmlToText(fieldAt(row, colBasin)),
	}

	if pdf := extractPDFURL(fieldAt(row, colPDFButton), origin); pdf != "" {
		o.PDFURL = &pdf
	}
	if vig := htmlToText(fieldAt(row, colVigente)); vig != "" {
		o.Vigente = &vig
	}

	return o, true
}

// fieldAt devolve a coluna i como string; linhas curtas ou valores não-string viram "".
// O upstream às vezes serializa o id como número JSON, então float64 também é aceito.
func fieldAt(row []any, i int) string {
	if i >= len(row) {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// htmlToText remove a marcação de um fragmento HTML preservando quebras de linha:
// <br> e fechamentos de bloco viram \n, o resto das tags é descartado.
func htmlToText(s string) string {
	if s == "" {
		return ""
	}
	s = brRe.ReplaceAllString(s, "\n")
	s = blockCloseRe.ReplaceAllString(s, "\n")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		// fragmento irrecuperável: cai para o strip por regex
		return strings.TrimSpace(tagRe.ReplaceAllString(s, ""))
	}
	return strings.TrimSpace(doc.Text())
}

// extractPDFURL procura o padrão window.open('...descarga_pdf_oferta.php?...')
// dentro do botão de download e resolve caminhos relativos contra a origem do feed.
func extractPDFURL(fragment string, origin *url.URL) string {
	if fragment == "" {
		return ""
	}
	target := fragment
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment)); err == nil {
		if onclick, ok := doc.Find("[onclick]").Attr("onclick"); ok {
			target = onclick
		}
	}
	m := pdfOpenRe.FindStringSubmatch(target)
	if m == nil {
		// o atributo pode ter sido reescrito; tenta o fragmento inteiro
		if m = pdfOpenRe.FindStringSubmatch(fragment); m == nil {
			return ""
		}
	}
	path := m[1]
	if strings.HasPrefix(path, "http") {
		return path
	}
	if origin == nil {
		return path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return ""
	}
	return origin.ResolveReference(ref).String()
}

// Layouts aceitos para as datas do feed, dia antes do mês.
var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006 15:04:05",
	"02-01-2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDateTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseDate(s string) *time.Time {
	t := parseDateTime(s)
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
