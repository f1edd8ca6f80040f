package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"brook/internal/ast"
	"brook/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

func (n *treeNode) add(child *treeNode) { n.children = append(n.children, child) }

// role prefixes the child's label with its position in the parent ("cond", "then").
func role(name string, n *treeNode) *treeNode {
	n.label = name + ": " + n.label
	return n
}

type treeBuilder struct {
	b  *ast.Builder
	fs *source.FileSet
}

func (tb treeBuilder) span(sp source.Span) string {
	if tb.fs != nil {
		start, end := tb.fs.Resolve(sp)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", sp.Start, sp.End)
}

func (tb treeBuilder) file(id ast.FileID) *treeNode {
	f := tb.b.Files.Get(id)
	if f == nil {
		return &treeNode{label: fmt.Sprintf("File[%d]: <nil>", id)}
	}
	header := "File"
	if tb.fs != nil {
		if sf := tb.fs.Get(f.Span.File); sf != nil {
			header = sf.Path
		}
	}
	root := &treeNode{label: fmt.Sprintf("%s (%s)", header, tb.span(f.Span))}
	for _, sid := range f.Stmts {
		root.add(tb.stmt(sid))
	}
	return root
}

func (tb treeBuilder) stmt(id ast.StmtID) *treeNode {
	st := tb.b.Stmts.Get(id)
	if st == nil {
		return &treeNode{label: "<nil stmt>"}
	}
	n := &treeNode{label: fmt.Sprintf("%sStmt (%s)", st.Kind, tb.span(st.Span))}
	switch st.Kind {
	case ast.StmtLet:
		let, _ := tb.b.Stmts.Let(id)
		n.label = fmt.Sprintf("LetStmt %s (%s)", let.Name, tb.span(st.Span))
		if let.Type != "" {
			n.add(&treeNode{label: "type: " + let.Type})
		}
		if let.Value != ast.NoExprID {
			n.add(role("value", tb.expr(let.Value)))
		}
	case ast.StmtReturn:
		ret, _ := tb.b.Stmts.Return(id)
		if ret.Value != ast.NoExprID {
			n.add(tb.expr(ret.Value))
		}
	case ast.StmtExpr, ast.StmtBlock, ast.StmtIf, ast.StmtWhile, ast.StmtLoop:
		es, _ := tb.b.Stmts.Expr(id)
		if es.Semicolon {
			n.label = fmt.Sprintf("%sStmt; (%s)", st.Kind, tb.span(st.Span))
		}
		n.add(tb.expr(es.Expr))
	}
	return n
}

func (tb treeBuilder) expr(id ast.ExprID) *treeNode {
	e := tb.b.Exprs.Get(id)
	if e == nil {
		return &treeNode{label: "<nil expr>"}
	}
	at := tb.span(e.Span)
	n := &treeNode{label: fmt.Sprintf("%s (%s)", e.Kind, at)}
	x := tb.b.Exprs
	switch e.Kind {
	case ast.ExprBlock:
		blk, _ := x.Block(id)
		for _, sid := range blk.Stmts {
			n.add(tb.stmt(sid))
		}
		if blk.Tail != ast.NoExprID {
			n.add(role("tail", tb.expr(blk.Tail)))
		}
	case ast.ExprIf:
		ife, _ := x.If(id)
		n.add(role("cond", tb.expr(ife.Cond)))
		n.add(role("then", tb.expr(ife.Then)))
		if ife.Else != ast.NoExprID {
			n.add(role("else", tb.expr(ife.Else)))
		}
	case ast.ExprWhile:
		wh, _ := x.While(id)
		n.add(role("cond", tb.expr(wh.Cond)))
		n.add(role("body", tb.expr(wh.Body)))
	case ast.ExprLoop:
		lp, _ := x.Loop(id)
		n.add(role("body", tb.expr(lp.Body)))
	case ast.ExprAssign:
		as, _ := x.Assign(id)
		n.label = fmt.Sprintf("Assign %s (%s)", as.Name, at)
		n.add(tb.expr(as.Value))
	case ast.ExprBinary:
		bin, _ := x.Binary(id)
		n.label = fmt.Sprintf("Binary %s (%s)", bin.Op, at)
		n.add(tb.expr(bin.Left))
		n.add(tb.expr(bin.Right))
	case ast.ExprUnary:
		un, _ := x.Unary(id)
		n.label = fmt.Sprintf("Unary %s (%s)", un.Op, at)
		n.add(tb.expr(un.Operand))
	case ast.ExprLit:
		lit, _ := x.Literal(id)
		n.label = fmt.Sprintf("Lit %s (%s)", lit.Value, at)
	case ast.ExprIdent:
		ident, _ := x.Ident(id)
		n.label = fmt.Sprintf("Ident %s (%s)", ident.Name, at)
	case ast.ExprGroup:
		g, _ := x.Group(id)
		n.add(tb.expr(g.Inner))
	case ast.ExprCall:
		call, _ := x.Call(id)
		n.label = fmt.Sprintf("Call %s (%s)", call.Name, at)
		for _, arg := range call.Args {
			n.add(tb.expr(arg))
		}
	}
	return n
}

// writeTree draws node with box-drawing connectors.
func writeTree(sb *strings.Builder, n *treeNode, prefix string) {
	for i, c := range n.children {
		last := i == len(n.children)-1
		branch, next := "├─ ", "│  "
		if last {
			branch, next = "└─ ", "   "
		}
		sb.WriteString(prefix + branch + c.label + "\n")
		writeTree(sb, c, prefix+next)
	}
}

// FormatASTPretty writes the syntax tree of fileID as an indented tree.
func FormatASTPretty(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	if builder.Files.Get(fileID) == nil {
		return fmt.Errorf("file %d not found", fileID)
	}
	root := treeBuilder{b: builder, fs: fs}.file(fileID)
	var sb strings.Builder
	sb.WriteString(root.label + "\n")
	writeTree(&sb, root, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Kind     string          `json:"kind,omitempty"`
	Start    uint32          `json:"start"`
	End      uint32          `json:"end"`
	Fields   map[string]any  `json:"fields,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

type jsonBuilder struct{ b *ast.Builder }

func (jb jsonBuilder) stmt(id ast.StmtID) ASTNodeOutput {
	st := jb.b.Stmts.Get(id)
	if st == nil {
		return ASTNodeOutput{Type: "Stmt"}
	}
	out := ASTNodeOutput{Type: "Stmt", Kind: st.Kind.String(), Start: st.Span.Start, End: st.Span.End}
	switch st.Kind {
	case ast.StmtLet:
		let, _ := jb.b.Stmts.Let(id)
		out.Fields = map[string]any{"name": let.Name}
		if let.Type != "" {
			out.Fields["type"] = let.Type
		}
		if let.Value != ast.NoExprID {
			out.Children = append(out.Children, jb.expr(let.Value))
		}
	case ast.StmtReturn:
		ret, _ := jb.b.Stmts.Return(id)
		if ret.Value != ast.NoExprID {
			out.Children = append(out.Children, jb.expr(ret.Value))
		}
	case ast.StmtExpr, ast.StmtBlock, ast.StmtIf, ast.StmtWhile, ast.StmtLoop:
		es, _ := jb.b.Stmts.Expr(id)
		out.Fields = map[string]any{"semicolon": es.Semicolon}
		out.Children = append(out.Children, jb.expr(es.Expr))
	}
	return out
}

func (jb jsonBuilder) expr(id ast.ExprID) ASTNodeOutput {
	e := jb.b.Exprs.Get(id)
	if e == nil {
		return ASTNodeOutput{Type: "Expr"}
	}
	out := ASTNodeOutput{Type: "Expr", Kind: e.Kind.String(), Start: e.Span.Start, End: e.Span.End}
	kids := func(ids ...ast.ExprID) {
		for _, c := range ids {
			if c != ast.NoExprID {
				out.Children = append(out.Children, jb.expr(c))
			}
		}
	}
	x := jb.b.Exprs
	switch e.Kind {
	case ast.ExprBlock:
		blk, _ := x.Block(id)
		for _, sid := range blk.Stmts {
			out.Children = append(out.Children, jb.stmt(sid))
		}
		if blk.Tail != ast.NoExprID {
			out.Fields = map[string]any{"tail": true}
			kids(blk.Tail)
		}
	case ast.ExprIf:
		ife, _ := x.If(id)
		out.Fields = map[string]any{"else": ife.Else != ast.NoExprID}
		kids(ife.Cond, ife.Then, ife.Else)
	case ast.ExprWhile:
		wh, _ := x.While(id)
		kids(wh.Cond, wh.Body)
	case ast.ExprLoop:
		lp, _ := x.Loop(id)
		kids(lp.Body)
	case ast.ExprAssign:
		as, _ := x.Assign(id)
		out.Fields = map[string]any{"name": as.Name}
		kids(as.Value)
	case ast.ExprBinary:
		bin, _ := x.Binary(id)
		out.Fields = map[string]any{"op": bin.Op.String()}
		kids(bin.Left, bin.Right)
	case ast.ExprUnary:
		un, _ := x.Unary(id)
		out.Fields = map[string]any{"op": un.Op.String()}
		kids(un.Operand)
	case ast.ExprLit:
		lit, _ := x.Literal(id)
		out.Fields = map[string]any{"value": lit.Value.String(), "text": lit.Text}
	case ast.ExprIdent:
		ident, _ := x.Ident(id)
		out.Fields = map[string]any{"name": ident.Name}
	case ast.ExprGroup:
		g, _ := x.Group(id)
		kids(g.Inner)
	case ast.ExprCall:
		call, _ := x.Call(id)
		out.Fields = map[string]any{"name": call.Name}
		kids(call.Args...)
	}
	return out
}

// FormatASTJSON writes the syntax tree of fileID as indented JSON.
func FormatASTJSON(w io.Writer, builder *ast.Builder, fileID ast.FileID) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file %d not found", fileID)
	}
	jb := jsonBuilder{b: builder}
	out := ASTNodeOutput{Type: "File", Start: file.Span.Start, End: file.Span.End}
	for _, sid := range file.Stmts {
		out.Children = append(out.Children, jb.stmt(sid))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
