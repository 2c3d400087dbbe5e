package llm

import (
	"strings"
	"time"
)

// BuildProductPrompt returns the instruction paired with the encoded image on
// the vision path. The contract is four exact keys, string-or-null, dates
// normalized to DD-MM-YY, and the model is told to infer from partial visual
// cues rather than refuse.
func BuildProductPrompt() string {
	parts := []string{
		"You are an expert at extracting structured information from images.",
		"You are given an image that may contain a product (a packaged good, a poster, a label, etc.).",
		"Extract the following information and return it as a single JSON object with the exact keys \"product_name\", \"company\", \"start_date\" and \"end_date\".",
		"If any piece of information is not present and cannot be deduced, return null for that field.",
		"Dates must use the format 'dd-mm-yy' (day-month-year); for example '01-09-24' is 1 September 2024.",
		"If the product or company name is unclear, do your best to infer it from logos, text fragments, or any textual clues.",
		"Inspect the image for dates that might represent a production date, expiration date, promotion period, or validity window. Dates may be partially visible or formatted in various ways (dd/mm/yy, dd-mm-yy, mm/yy, ...); interpret and standardize them into 'dd-mm-yy' as best as you can.",
		"If multiple potential dates are visible, choose the ones that most reasonably represent a start and end timeframe for the product, such as a promotional period or a shelf life. If no logical inference can be made, return null for those dates.",
		"Use advanced reasoning and be creative in interpreting unclear or incomplete clues.",
		"Always return strictly a single JSON object in the following form:",
		`{"product_name": "..." or null, "company": "..." or null, "start_date": "dd-mm-yy" or null, "end_date": "dd-mm-yy" or null}`,
	}
	return strings.Join(parts, "\n")
}

// BuildSalePrompt returns the text-path instruction for a transcript. Today
// anchors relative temporal expressions ("dans deux semaines", "vendredi
// prochain") so the model can resolve them to absolute YYYY-MM-DD dates.
func BuildSalePrompt(transcript string, today time.Time) string {
	todayStr := today.Format("2006-01-02")
	var b strings.Builder
	b.WriteString("Le texte suivant est en français: \"")
	b.WriteString(transcript)
	b.WriteString("\"\n\nNous sommes le ")
	b.WriteString(todayStr)
	b.WriteString(". Veuillez :\n\n")
	b.WriteString(`1. Extraire le nom de la personne mentionnée dans le texte (par exemple "M. Dupont", "Alice", "Madame Sakho").
   - Incluez les titres honorifiques (par exemple "Madame", "Monsieur") si mentionnés dans le texte.
   - S'il n'y a pas de nom explicite, retournez null.

2. Extraire les informations sur les produits et retourner STRICTEMENT le format JSON suivant :

{
  "person_name": "Nom de la personne ou null",
  "products": [
    {
      "product_name": "Nom du produit",
      "quantity": "Nombre ou null",
      "price": "Prix ou null",
      "transaction_type": "vente ou achat",
      "payment_date": "Date de paiement au format YYYY-MM-DD ou null"
    }
  ]
}

Contraintes supplémentaires :
- N'incluez aucun texte supplémentaire comme des traductions ou des introductions dans la réponse.
- "transaction_type" doit être "vente" ou "achat" selon ce qui est trouvé dans le texte.
- Identifiez toute date ou période de paiement mentionnée dans le texte, qu'elle soit absolue (ex : "15 janvier 2024") ou relative (ex : "dans deux semaines", "vendredi prochain").
`)
	b.WriteString("  - Convertissez cette information en une date exacte au format YYYY-MM-DD en vous basant sur la date du jour (")
	b.WriteString(todayStr)
	b.WriteString(`).
  - Si aucune date n'est trouvée, retournez null.
- "quantity" doit être un nombre si trouvé, sinon null.
- "price" doit être un nombre si trouvé, sinon null.
- Le JSON doit STRICTEMENT respecter ce format (n'ajoutez ni ne retirez aucune clé).
- Si plusieurs dates sont mentionnées, choisissez celle qui semble la plus logiquement liée au paiement.
- Soyez créatif dans l'interprétation des dates implicites ou relatives, mais conservez un format rigoureux.

IMPORTANT : Ne retournez rien d'autre que la structure JSON demandée.`)
	return b.String()
}
