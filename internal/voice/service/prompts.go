package service

import (
	"fmt"
	"strings"
)

const (
	promptIntro = "Buna! Ai sunat la MARMURFIT. Pentru calitate, apelul poate fi inregistrat. " +
		"Iti pot face o estimare orientativa. Nu facem masuratori la domiciliu, " +
		"lucram pe dimensiunile tale si recomandam toleranta de aproximativ doi centimetri " +
		"la capete si in fata, pentru ca treptele ies in exterior fata de contratrepte. " +
		"Spune-mi, te rog, materialul si suprafata in metri patrati, " +
		"sau pentru glafuri latimea in centimetri si lungimea in metri liniari."

	promptMeasurement = "Care este suprafata in metri patrati sau, pentru glafuri, latimea in centimetri si lungimea in metri liniari?"

	promptUnpriced = "Ca sa estimez corect, am nevoie de materialul exact si suprafata totala in metri patrati " +
		"sau latimea in centimetri plus lungimea in metri liniari. Imi spui, te rog?"

	promptEstimateFmt = "Estimarea orientativa este aproximativ %d lei, fara transport si operatii speciale. " +
		"Lucram exclusiv cu avans minim 50 la suta. " +
		"Iti trimit rezumatul pe WhatsApp? Spune da sau nu."

	promptThanksSummary = "Multumesc! Trimit rezumatul. O zi excelenta din partea MARMURFIT!"
	promptThanks        = "Multumesc! O zi excelenta din partea MARMURFIT!"

	promptHandoff = "Nu am reusit sa inteleg toate detaliile. Te conectez acum cu un coleg."
	promptGoodbye = "Nu am reusit sa inteleg toate detaliile. Te rugam sa revii cu un apel " +
		"sau sa ne scrii pe WhatsApp. O zi excelenta din partea MARMURFIT!"
)

// materialPrompt lists the catalog in declaration order, joining the last
// name with "sau".
func materialPrompt(names []string) string {
	var list string
	switch len(names) {
	case 0:
		return "Ce material doresti?"
	case 1:
		list = names[0]
	default:
		list = strings.Join(names[:len(names)-1], ", ") + " sau " + names[len(names)-1]
	}
	return fmt.Sprintf("Ce material doresti? Avem %s.", list)
}

func estimatePrompt(estimate int64) string {
	return fmt.Sprintf(promptEstimateFmt, estimate)
}
