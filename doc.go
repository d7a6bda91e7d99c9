// Package carteira implements the portfolio simulation engine behind the
// investment assistant: a product catalog, a persisted customer ledger
// (cash balance, positions and investor profile), the buy/sell transaction
// engine and the suitability questionnaire that gates which products may be
// suggested or traded.
//
// The engine is exposed to the conversational orchestrator through a small
// set of named operations (consultar_carteira, comprar_ativo, vender_ativo,
// obter_perfil_investidor, iniciar_questionario_perfil,
// responder_questionario_perfil, sugerir_investimentos). Every operation
// returns a structured result with a "status" and a "mensagem" field; engine
// errors are always converted into such results, never raised past the
// dispatcher.
//
// All monetary arithmetic is exact decimal arithmetic. The ledger is read
// fully before every operation and written fully after every mutation, with
// mutating operations serialized per customer by the Store.
package carteira
