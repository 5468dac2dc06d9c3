package htmlutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const cardsHtml = `<html><body>
<ul>
  <li class="playerCardInfo"><span class="number">7</span><h4 class="name">Cristiano
      Ronaldo</h4><span class="position">Forward</span><!-- hidden --></li>
  <li class="playerCardInfo">
    <span class="number">1</span>
    <h4 class="name">David de Gea</h4>
    <script>var x = 1;</script>
    <span class="position">Goalkeeper</span>
  </li>
</ul>
<a class="indexItem" href="/clubs/12/Manchester-United/overview"> Manchester
   United </a>
<a class="indexItem">no href</a>
</body></html>`

func TestTexts(t *testing.T) {
	doc, err := Parse(cardsHtml)
	require.NoError(t, err)

	texts := Texts(doc, ".playerCardInfo")
	require.Equal(t, []string{
		"7 Cristiano Ronaldo Forward",
		"1 David de Gea Goalkeeper",
	}, texts)

	require.Empty(t, Texts(doc, ".squadPlayerStats"))
}

func TestFindAll(t *testing.T) {
	sel, err := FindAll(cardsHtml, "li .position")
	require.NoError(t, err)
	require.Equal(t, 2, sel.Length())
	require.Equal(t, "Forward Goalkeeper", TextOf(sel))
}

func TestGetAnchors(t *testing.T) {
	sel, err := FindAll(cardsHtml, "a.indexItem")
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), sel)
	require.Equal(t, []Anchor{
		{Name: "Manchester United", Href: "/clubs/12/Manchester-United/overview"},
	}, anchors)
}

func TestNormalizeText(t *testing.T) {
	require.Equal(t, "a b c", NormalizeText("\n a \t\tb  c  "))
}
