package snapshot

// scanScript выполняется внутри страницы и возвращает сырые факты DOM.
// Видимым считается элемент с ненулевым размером, не скрытый стилями и
// вертикально пересекающий текущий viewport. Селектор синтезируется по
// приоритету id > тег.первый-класс > цепочка :nth-child от ближайшего
// id/body; кандидаты id и класса проверяются на уникальность в документе,
// цепочка уникальна по построению - каждый шаг фиксирует точную позицию
// среди реальных соседей.
const scanScript = `
() => {
	const cap = { buttons: 25, inputs: 18, links: 15, modals: 3, prices: 10, text: 1100 };
	const viewH = window.innerHeight || document.documentElement.clientHeight;

	const visible = (el) => {
		const rect = el.getBoundingClientRect();
		if (rect.width <= 0 || rect.height <= 0) return false;
		const style = window.getComputedStyle(el);
		if (style.display === 'none' || style.visibility === 'hidden' || style.opacity === '0') return false;
		return rect.top < viewH && rect.bottom > 0;
	};

	const pseudoState = ['active', 'hover', 'focus', 'selected', 'open', 'show', 'current', 'disabled'];
	const classToken = (el) => {
		const raw = (typeof el.className === 'string') ? el.className : '';
		for (const t of raw.split(/\s+/).filter(Boolean)) {
			const lower = t.toLowerCase();
			if (pseudoState.some(p => lower === p || lower.endsWith('-' + p))) continue;
			return t;
		}
		return '';
	};

	const esc = (s) => (window.CSS && CSS.escape) ? CSS.escape(s) : s.replace(/([^a-zA-Z0-9_-])/g, '\\$1');

	const unique = (sel, el) => {
		try {
			const found = document.querySelectorAll(sel);
			return found.length === 1 && found[0] === el;
		} catch (e) {
			return false;
		}
	};

	const nthPath = (el) => {
		const parts = [];
		let cur = el;
		while (cur && cur.nodeType === 1 && cur !== document.documentElement) {
			if (cur.id) {
				parts.unshift('#' + esc(cur.id));
				break;
			}
			const parent = cur.parentElement;
			if (!parent) {
				parts.unshift(cur.tagName.toLowerCase());
				break;
			}
			const idx = Array.prototype.indexOf.call(parent.children, cur) + 1;
			parts.unshift(cur.tagName.toLowerCase() + ':nth-child(' + idx + ')');
			if (parent === document.body) {
				parts.unshift('body');
				break;
			}
			cur = parent;
		}
		return parts.join(' > ');
	};

	const selectorFor = (el) => {
		if (el.id) {
			const sel = '#' + esc(el.id);
			if (unique(sel, el)) return sel;
		}
		const cls = classToken(el);
		if (cls) {
			const sel = el.tagName.toLowerCase() + '.' + esc(cls);
			if (unique(sel, el)) return sel;
		}
		return nthPath(el);
	};

	const clean = (s) => (s || '').replace(/\s+/g, ' ').trim();

	const buttons = [];
	for (const el of document.querySelectorAll("button, a[href], [role='button'], input[type='submit'], input[type='button'], .btn, .button")) {
		if (buttons.length >= cap.buttons) break;
		if (!visible(el)) continue;
		let text = clean(el.tagName === 'INPUT' ? el.value : el.textContent).substring(0, 80);
		if (!text) text = clean(el.getAttribute('aria-label') || '').substring(0, 80);
		if (!text) continue;
		buttons.push({ text: text, selector: selectorFor(el) });
	}

	const inputs = [];
	for (const el of document.querySelectorAll('input, textarea, select')) {
		if (inputs.length >= cap.inputs) break;
		const tag = el.tagName.toLowerCase();
		const type = (el.getAttribute('type') || (tag === 'input' ? 'text' : tag)).toLowerCase();
		if (type === 'hidden' || type === 'submit' || type === 'button') continue;
		if (!visible(el)) continue;

		let label = el.getAttribute('aria-label') || '';
		if (!label && el.id) {
			const lab = document.querySelector("label[for='" + esc(el.id) + "']");
			if (lab) label = clean(lab.textContent);
		}
		if (!label) {
			const lab = el.closest('label');
			if (lab) label = clean(lab.textContent);
		}

		inputs.push({
			type: type,
			name: el.getAttribute('name') || '',
			placeholder: el.getAttribute('placeholder') || '',
			selector: selectorFor(el),
			value: el.value || '',
			label: label.substring(0, 80)
		});
	}

	const links = [];
	for (const el of document.querySelectorAll('a[href]')) {
		if (links.length >= cap.links) break;
		if (!visible(el)) continue;
		const text = clean(el.textContent).substring(0, 80);
		if (!text) continue;
		links.push({ text: text, href: el.href || '' });
	}

	const modals = [];
	for (const el of document.querySelectorAll("[role='dialog'], [role='alertdialog'], .modal, .popup, [class*='modal'], [class*='popup'], [class*='overlay']")) {
		if (modals.length >= cap.modals) break;
		if (!visible(el)) continue;
		modals.push({ text: clean(el.textContent).substring(0, 120), selector: selectorFor(el) });
	}

	const bodyText = clean(document.body ? document.body.innerText : '');

	const prices = [];
	const priceRe = /\d+(?:[.,]\d+)?\s*(?:лв\.?|BGN|EUR|€|USD|\$)/g;
	let m;
	while ((m = priceRe.exec(bodyText)) !== null && prices.length < cap.prices) {
		prices.push(m[0]);
	}

	return {
		buttons: buttons,
		inputs: inputs,
		links: links,
		modals: modals,
		prices: prices,
		text: bodyText.substring(0, cap.text),
		formCount: document.querySelectorAll('form').length,
		iframeCount: document.querySelectorAll('iframe').length
	};
}
`
