package page

// harvestJS runs inside the page to collect candidate elements in a single
// round trip. It takes (scopeSelector, querySelector, interactableOnly) and
// returns an array of ElementInfo-shaped objects in document order, each with
// a reconstructed CSS path that uniquely addresses the node at harvest time.
const harvestJS = `function(scopeSel, querySel, interactableOnly) {
	const root = scopeSel ? document.querySelector(scopeSel) : document;
	if (!root) {
		return [];
	}

	const INTERACTIVE = 'a, button, input, select, textarea, summary, ' +
		'[role="button"], [role="link"], [role="textbox"], [role="searchbox"], ' +
		'[role="menuitem"], [role="tab"], [onclick], [tabindex], ' +
		'[data-testid], [data-cy], [data-qa], nav, img, li, article, ' +
		'[role="navigation"], [role="listitem"], [role="img"]';

	function cssPath(el) {
		if (el.id) {
			return '#' + CSS.escape(el.id);
		}
		const parts = [];
		let node = el;
		while (node && node.nodeType === Node.ELEMENT_NODE && node !== document.documentElement) {
			let part = node.localName;
			const parent = node.parentElement;
			if (parent) {
				const siblings = Array.from(parent.children).filter(c => c.localName === node.localName);
				if (siblings.length > 1) {
					part += ':nth-of-type(' + (siblings.indexOf(node) + 1) + ')';
				}
			}
			parts.unshift(part);
			if (node.parentElement && node.parentElement.id) {
				parts.unshift('#' + CSS.escape(node.parentElement.id));
				break;
			}
			node = node.parentElement;
		}
		return parts.join(' > ');
	}

	function describe(el, index) {
		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		const visible = rect.width > 0 && rect.height > 0 &&
			style.display !== 'none' && style.visibility !== 'hidden';
		const attrs = {};
		for (const a of el.attributes) {
			attrs[a.name] = a.value;
		}
		let text = (el.innerText || el.value || '').trim().replace(/\s+/g, ' ');
		if (text.length > 200) {
			text = text.slice(0, 200);
		}
		return {
			index: index,
			tagName: el.localName,
			attributes: attrs,
			text: text,
			selector: cssPath(el),
			x: rect.x,
			y: rect.y,
			width: rect.width,
			height: rect.height,
			visible: visible
		};
	}

	function usable(el) {
		if (el.disabled) return false;
		if (el.getAttribute('aria-disabled') === 'true') return false;
		if (el.getAttribute('aria-hidden') === 'true') return false;
		return true;
	}

	const sel = querySel || INTERACTIVE;
	let nodes;
	try {
		nodes = Array.from(root.querySelectorAll(sel));
	} catch (e) {
		return [];
	}
	const out = [];
	for (const el of nodes) {
		if (interactableOnly && !usable(el)) {
			continue;
		}
		out.push(describe(el, out.length));
	}
	return out;
}`
