package models

import (
	"fmt"
	"math"
)

// LineItemList lista ordenada de itens de serviço do agendamento em edição.
// As operações espelham o formulário: adicionar uma linha vazia, remover por
// posição, trocar o serviço (copiando o preço base), ajustar preço/quantidade
// e recalcular o total.
type LineItemList struct {
	Items []AppointmentService
}

// Add acrescenta um item vazio: sem serviço, quantidade 1, preço 0.
func (l *LineItemList) Add() {
	l.Items = append(l.Items, AppointmentService{Quantity: 1})
}

// Remove remove o item na posição i; os demais itens não são revalidados.
func (l *LineItemList) Remove(i int) error {
	if i < 0 || i >= len(l.Items) {
		return fmt.Errorf("posição inválida: %d", i)
	}
	l.Items = append(l.Items[:i], l.Items[i+1:]...)
	return nil
}

// SetService troca o serviço do item e copia base_price para o preço.
// A cópia é só um valor inicial: SetPrice pode alterá-lo depois sem mexer
// na referência ao serviço.
func (l *LineItemList) SetService(i int, svc Service) error {
	if i < 0 || i >= len(l.Items) {
		return fmt.Errorf("posição inválida: %d", i)
	}
	l.Items[i].ServiceID = svc.ID
	l.Items[i].Price = svc.BasePrice
	l.Items[i].ServiceName = svc.Name
	return nil
}

// SetPrice define o preço do item, mantendo o serviço selecionado.
func (l *LineItemList) SetPrice(i int, price float64) error {
	if i < 0 || i >= len(l.Items) {
		return fmt.Errorf("posição inválida: %d", i)
	}
	l.Items[i].Price = price
	return nil
}

// SetQuantity define a quantidade do item.
func (l *LineItemList) SetQuantity(i int, quantity int) error {
	if i < 0 || i >= len(l.Items) {
		return fmt.Errorf("posição inválida: %d", i)
	}
	l.Items[i].Quantity = quantity
	return nil
}

// Total soma preço × quantidade de todos os itens, arredondado a 2 casas.
// Função pura do estado atual, recalculada a cada chamada.
func (l *LineItemList) Total() float64 {
	var total float64
	for _, item := range l.Items {
		total += item.Price * float64(item.Quantity)
	}
	return Round2(total)
}

// Len quantidade de itens da lista.
func (l *LineItemList) Len() int {
	return len(l.Items)
}

// Round2 arredonda um valor monetário para 2 casas decimais.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
