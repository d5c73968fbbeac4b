// Package pdf renders factures, devis and bons de livraison as A4
// documents with Maroto.
//
// Layout per document:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: société + logo        │  Type + N° + dates          │
//	│  ───────────────────────────────────────────────────────────│
//	│  CLIENT: nom + coordonnées (champs absents omis)            │
//	│  TABLE: # | Produit | Qté | P.U. | Remise | Total           │
//	│  TOTAUX: sous-total / remise / TVA / total  (pas pour BL)   │
//	│  Montant en lettres (devis uniquement)                      │
//	│  FOOTER: IBAN, notes                                        │
//	└─────────────────────────────────────────────────────────────┘
//
// The totals block prints the document's persisted amounts, not a fresh
// totals-engine run: a rendered PDF always reflects what was last saved.
package pdf

import (
	"fmt"
	"os"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/ngbilling/ngbilling/internal/models"
)

// tauxTVAPercent is the display form of the single VAT rate applied by
// the totals engine.
const tauxTVAPercent = 19

var (
	colorPrimary = &props.Color{Red: 30, Green: 64, Blue: 175}
	colorAccent  = &props.Color{Red: 245, Green: 158, Blue: 11}
	colorGray    = &props.Color{Red: 107, Green: 114, Blue: 128}
)

// Entreprise is the company identity printed on every document. Empty
// fields are omitted from the header and footer.
type Entreprise struct {
	Nom       string
	MF        string // matricule fiscale
	Adresse   string
	Telephone string
	Email     string
	IBAN      string
	Logo      string // file path, optional
}

// SettingsSource supplies the company identity at render time.
type SettingsSource interface {
	Company() (Entreprise, error)
}

type Renderer struct {
	settings SettingsSource
}

func NewRenderer(settings SettingsSource) *Renderer {
	return &Renderer{settings: settings}
}

func (r *Renderer) company() Entreprise {
	if r.settings == nil {
		return Entreprise{Nom: "NGBilling"}
	}
	e, err := r.settings.Company()
	if err != nil || e.Nom == "" {
		return Entreprise{Nom: "NGBilling"}
	}
	return e
}

// Facture renders an invoice to a PDF buffer.
func (r *Renderer) Facture(f *models.Facture, client *models.Client) ([]byte, error) {
	company := r.company()
	m := newDocument(company)
	addHeader(m, company, "Facture", f.Numero, f.DateCreation, "Échéance : "+FormatDate(f.DateEcheance))
	addClientBlock(m, f.ClientNom, client)
	addLignesTable(m, f.Lignes)
	addTotauxBlock(m, f.SousTotal, f.RemiseTotale, f.AppliquerTVA, f.TVA, f.Total)
	addFooter(m, company, f.Notes)
	return generate(m)
}

// Devis renders a quote, including its amount-in-words line.
func (r *Renderer) Devis(d *models.Devis, client *models.Client) ([]byte, error) {
	company := r.company()
	m := newDocument(company)
	addHeader(m, company, "Devis", d.Numero, d.DateCreation, "Valable jusqu'au : "+FormatDate(d.DateExpiration))
	addClientBlock(m, d.ClientNom, client)
	addLignesTable(m, d.Lignes)
	addTotauxBlock(m, d.SousTotal, d.RemiseTotale, d.AppliquerTVA, d.TVA, d.Total)
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Arrêté le présent devis à la somme de : "+MontantEnLettres(d.Total), props.Text{
			Size: 8, Style: fontstyle.BoldItalic, Top: 2,
		}),
	)))
	if d.ConditionsReglement != "" {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New("Conditions de règlement : "+d.ConditionsReglement, props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}
	addFooter(m, company, d.Notes)
	return generate(m)
}

// BonLivraison renders a delivery note. Quantities and prices appear per
// line but the document carries no totals block.
func (r *Renderer) BonLivraison(b *models.BonLivraison, client *models.Client) ([]byte, error) {
	company := r.company()
	m := newDocument(company)
	addHeader(m, company, "Bon de livraison", b.Numero, b.DateCreation, "Livraison : "+FormatDate(b.DateLivraison))
	addClientBlock(m, b.ClientNom, client)
	addLignesTable(m, b.Lignes)
	addFooter(m, company, b.Notes)
	return generate(m)
}

func newDocument(company Entreprise) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithAuthor(company.Nom, true).
		Build()
	return maroto.New(cfg)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: génération du document: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, company Entreprise, title, numero string, created time.Time, secondDate string) {
	left := col.New(7)
	if company.Logo != "" {
		if _, err := os.Stat(company.Logo); err == nil {
			left.Add(image.NewFromFile(company.Logo, props.Rect{Percent: 60}))
		}
	}
	left.Add(
		text.New(company.Nom, props.Text{Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 1}),
		text.New("Gestion de facturation", props.Text{Size: 8, Color: colorGray, Top: 9}),
	)
	m.AddRows(row.New(20).Add(
		left,
		col.New(5).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 14, Align: align.Right, Top: 1}),
			text.New("N° "+numero, props.Text{Size: 9, Align: align.Right, Color: colorGray, Top: 9}),
			text.New(FormatDate(created), props.Text{Size: 9, Align: align.Right, Color: colorGray, Top: 13}),
			text.New(secondDate, props.Text{Size: 8, Align: align.Right, Color: colorGray, Top: 17}),
		),
	))
	m.AddRows(line.NewRow(2, props.Line{Color: colorAccent, Thickness: 0.8}))
}

// addClientBlock prints the client snapshot name plus whatever live
// contact fields are present; absent fields are simply skipped.
func addClientBlock(m core.Maroto, clientNom string, client *models.Client) {
	c := col.New(12).Add(
		text.New("Informations Client", props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 1}),
		text.New(clientNom, props.Text{Style: fontstyle.Bold, Size: 9, Top: 7}),
	)
	top := 11.0
	add := func(label, value string) {
		if value == "" {
			return
		}
		c.Add(text.New(label+value, props.Text{Size: 8, Color: colorGray, Top: top}))
		top += 4
	}
	if client != nil {
		add("Email : ", client.Email)
		add("Tél : ", client.Telephone)
		add("Adresse : ", client.Adresse)
		if client.Ville != "" {
			add("Ville : ", client.Ville+" "+client.CodePostal)
		}
		add("MF : ", client.MF)
	}
	m.AddRows(row.New(top + 3).Add(c))
}

func addLignesTable(m core.Maroto, lignes []models.LigneDocument) {
	header := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2,
		}))
	}
	m.AddRows(row.New(8).Add(
		header("#", 1, align.Center),
		header("Produit", 4, align.Left),
		header("Qté", 1, align.Center),
		header("Prix Unitaire", 2, align.Right),
		header("Remise", 1, align.Center),
		header("Total", 3, align.Right),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))

	for i, l := range lignes {
		name := l.ProduitNom
		if l.ProduitDescription != "" {
			name += " - " + l.ProduitDescription
		}
		m.AddRows(row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.Quantite), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(FormatMontant(l.PrixUnitaire, 3), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%g%%", l.Remise), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(FormatMontant(l.Total, 3), props.Text{Size: 8, Align: align.Right, Style: fontstyle.Bold, Top: 1})),
		))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
}

// addTotauxBlock prints the persisted amounts. The discount amount is
// derived from the stored subtotal and percentage, the only derivable
// figure in the block.
func addTotauxBlock(m core.Maroto, sousTotal, remiseTotale float64, appliquerTVA bool, tva, total float64) {
	label := func(s string) core.Col {
		return col.New(9).Add(text.New(s, props.Text{Size: 9, Align: align.Right, Color: colorGray, Top: 1}))
	}
	amount := func(v float64) core.Col {
		return col.New(3).Add(text.New(FormatMontant(v, 3), props.Text{Size: 9, Align: align.Right, Top: 1}))
	}
	m.AddRows(row.New(6).Add(label("Sous-total :"), amount(sousTotal)))
	if remiseTotale > 0 {
		m.AddRows(row.New(6).Add(
			label(fmt.Sprintf("Remise (%g%%) :", remiseTotale)),
			amount(sousTotal*remiseTotale/100),
		))
	}
	if appliquerTVA {
		m.AddRows(row.New(6).Add(label(fmt.Sprintf("TVA (%d%%) :", tauxTVAPercent)), amount(tva)))
	}
	m.AddRows(row.New(8).Add(
		col.New(9).Add(text.New("Total :", props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right, Color: colorPrimary, Top: 1})),
		col.New(3).Add(text.New(FormatMontant(total, 3), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right, Color: colorPrimary, Top: 1})),
	))
}

func addFooter(m core.Maroto, company Entreprise, notes string) {
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.3}))
	c := col.New(12)
	top := 1.0
	add := func(s string, p props.Text) {
		p.Top = top
		c.Add(text.New(s, p))
		top += 4
	}
	if notes != "" {
		add("Notes : "+notes, props.Text{Size: 8, Color: colorGray})
	}
	var coords []string
	for _, s := range []string{company.Adresse, company.Telephone, company.Email} {
		if s != "" {
			coords = append(coords, s)
		}
	}
	if len(coords) > 0 {
		add(joinDot(coords), props.Text{Size: 7, Color: colorGray})
	}
	if company.MF != "" {
		add("MF : "+company.MF, props.Text{Size: 7, Color: colorGray})
	}
	if company.IBAN != "" {
		add("IBAN : "+company.IBAN, props.Text{Size: 7, Color: colorGray})
	}
	add("Document généré par "+company.Nom, props.Text{Size: 7, Color: colorGray, Align: align.Right})
	m.AddRows(row.New(top + 2).Add(c))
}

func joinDot(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "  ·  " + p
	}
	return out
}
